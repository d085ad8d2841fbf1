package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewError(t *testing.T) {
	t.Parallel()

	t.Run("creates error with all defaults", func(t *testing.T) {
		err := NewError(ErrCodeInvalidConfig, "configuration is invalid")
		if err == nil {
			t.Fatal("NewError returned nil")
		}
		if err.Code != ErrCodeInvalidConfig {
			t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
		}
		if err.Message != "configuration is invalid" {
			t.Errorf("Message = %q, want %q", err.Message, "configuration is invalid")
		}
		if err.Category != CategoryConfiguration {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfiguration)
		}
		if err.Details == nil {
			t.Error("Details map is nil")
		}
		if err.Context == nil {
			t.Error("Context map is nil")
		}
		if err.Timestamp.IsZero() {
			t.Error("Timestamp not set")
		}
	})

	t.Run("sets correct user-facing defaults", func(t *testing.T) {
		userFacingErr := NewError(ErrCodeAuthenticationFailed, "auth failed")
		if !userFacingErr.UserFacing {
			t.Error("AuthenticationFailed should be user-facing by default")
		}

		internalErr := NewError(ErrCodeInternalError, "internal error")
		if internalErr.UserFacing {
			t.Error("InternalError should not be user-facing by default")
		}
	})
}

func TestGetCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     ErrorCode
		expected ErrorCategory
	}{
		{ErrCodeInvalidConfig, CategoryConfiguration},
		{ErrCodeConfigLoad, CategoryConfiguration},
		{ErrCodeConnectionFailed, CategoryConnection},
		{ErrCodeConnectionLost, CategoryConnection},
		{ErrCodeNetworkError, CategoryConnection},
		{ErrCodeSessionInitFailed, CategorySession},
		{ErrCodeSessionClosed, CategorySession},
		{ErrCodeRemoteFailure, CategoryRemote},
		{ErrCodeOpUnsupported, CategoryRemote},
		{ErrCodeMountFailed, CategoryFilesystem},
		{ErrCodeFileNotFound, CategoryFilesystem},
		{ErrCodeBadHandle, CategoryFilesystem},
		{ErrCodeAlreadyStarted, CategoryState},
		{ErrCodeNotInitialized, CategoryState},
		{ErrCodeAuthenticationFailed, CategoryAuth},
		{ErrCodeHostKeyMismatch, CategoryAuth},
		{ErrCodeCredentialsMissing, CategoryAuth},
		{ErrCodeInternalError, CategoryInternal},
		{ErrCodeUnknownError, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			result := GetCategory(tt.code)
			if result != tt.expected {
				t.Errorf("GetCategory(%v) = %v, want %v", tt.code, result, tt.expected)
			}
		})
	}
}

func TestSFTPFSError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *SFTPFSError
		want string
	}{
		{
			name: "with component and operation",
			err: &SFTPFSError{
				Code:      ErrCodeFileNotFound,
				Component: "filesystem",
				Operation: "read",
				Message:   "file does not exist",
			},
			want: "[filesystem:read] FILE_NOT_FOUND: file does not exist",
		},
		{
			name: "with component only",
			err: &SFTPFSError{
				Code:      ErrCodeInvalidConfig,
				Component: "config",
				Message:   "invalid value",
			},
			want: "[config] INVALID_CONFIG: invalid value",
		},
		{
			name: "minimal error",
			err: &SFTPFSError{
				Code:    ErrCodeUnknownError,
				Message: "something went wrong",
			},
			want: "UNKNOWN_ERROR: something went wrong",
		},
		{
			name: "with cause",
			err: &SFTPFSError{
				Code:      ErrCodeConnectionFailed,
				Component: "session",
				Message:   "dial example.com:22",
				Cause:     errors.New("connection refused"),
			},
			want: "[session] CONNECTION_FAILED: dial example.com:22: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.want {
				t.Errorf("Error() = %q, want %q", result, tt.want)
			}
		})
	}
}

func TestSFTPFSError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying cause")
	err := NewError(ErrCodeInternalError, "wrapper").WithCause(cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestSFTPFSError_Is(t *testing.T) {
	t.Parallel()

	err1 := &SFTPFSError{Code: ErrCodeFileNotFound, Message: "not found"}
	err2 := &SFTPFSError{Code: ErrCodeFileNotFound, Message: "different message"}
	err3 := &SFTPFSError{Code: ErrCodeInvalidConfig, Message: "invalid"}
	stdErr := errors.New("standard error")

	if !err1.Is(err2) {
		t.Error("errors with same code should match with Is()")
	}

	if err1.Is(err3) {
		t.Error("errors with different codes should not match with Is()")
	}

	if err1.Is(stdErr) {
		t.Error("SFTPFSError should not match standard error with Is()")
	}
}

func TestSFTPFSError_String(t *testing.T) {
	t.Parallel()

	err := &SFTPFSError{
		Code:      ErrCodeRemoteFailure,
		Category:  CategoryRemote,
		Message:   "remote write failed",
		Component: "filesystem",
		Operation: "write",
		Details:   map[string]interface{}{"offset": 4096},
		Cause:     errors.New("sftp: failure"),
	}

	result := err.String()

	expectedParts := []string{
		"Code=REMOTE_FAILURE",
		"Category=remote",
		`Message="remote write failed"`,
		"Component=filesystem",
		"Operation=write",
		"Details=",
		"Cause=",
	}

	for _, part := range expectedParts {
		if !strings.Contains(result, part) {
			t.Errorf("String() missing expected part: %q\nGot: %s", part, result)
		}
	}
}

func TestDetailedDiagnostic(t *testing.T) {
	t.Parallel()

	err := NewError(ErrCodeAuthenticationFailed, "password rejected").
		WithComponent("session").
		WithContext("host", "example.com:22").
		WithCause(errors.New("ssh: unable to authenticate"))

	diag := err.DetailedDiagnostic()

	for _, part := range []string{
		"Error: Authentication failed",
		"Code: AUTHENTICATION_FAILED",
		"Component: session",
		"host: example.com:22",
		"Recommendation:",
		"Underlying cause: ssh: unable to authenticate",
	} {
		if !strings.Contains(diag, part) {
			t.Errorf("DetailedDiagnostic() missing %q\nGot: %s", part, diag)
		}
	}
}

func TestUserFacingMessage_Internal(t *testing.T) {
	t.Parallel()

	err := NewError(ErrCodeInternalError, "nil pointer in handle table")
	if got := err.UserFacingMessage(); got != "An internal error occurred." {
		t.Errorf("UserFacingMessage() = %q", got)
	}
}
