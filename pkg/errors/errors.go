// Package errors provides a structured error system for sftpfs with error codes, categories, and context.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a structured error code for sftpfs operations.
type ErrorCode string

// Error code constants organized by category.
const (
	// Configuration Errors
	ErrCodeInvalidConfig    ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingConfig    ErrorCode = "MISSING_CONFIG"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrCodeConfigLoad       ErrorCode = "CONFIG_LOAD"

	// Connection Errors
	ErrCodeConnectionFailed  ErrorCode = "CONNECTION_FAILED"
	ErrCodeConnectionTimeout ErrorCode = "CONNECTION_TIMEOUT"
	ErrCodeConnectionLost    ErrorCode = "CONNECTION_LOST"
	ErrCodeNetworkError      ErrorCode = "NETWORK_ERROR"

	// Session Errors
	ErrCodeSessionInitFailed ErrorCode = "SESSION_INIT_FAILED"
	ErrCodeSessionClosed     ErrorCode = "SESSION_CLOSED"

	// Remote Operation Errors
	ErrCodeRemoteFailure ErrorCode = "REMOTE_FAILURE"
	ErrCodeOpUnsupported ErrorCode = "OP_UNSUPPORTED"

	// Filesystem Errors
	ErrCodeMountFailed      ErrorCode = "MOUNT_FAILED"
	ErrCodeUnmountFailed    ErrorCode = "UNMOUNT_FAILED"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodePathInvalid      ErrorCode = "PATH_INVALID"
	ErrCodeFileNotFound     ErrorCode = "FILE_NOT_FOUND"
	ErrCodeBadHandle        ErrorCode = "BAD_HANDLE"

	// State Management Errors
	ErrCodeAlreadyStarted ErrorCode = "ALREADY_STARTED"
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"
	ErrCodeInvalidState   ErrorCode = "INVALID_STATE"

	// Authentication Errors
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeCredentialsMissing   ErrorCode = "CREDENTIALS_MISSING"
	ErrCodeHostKeyMismatch      ErrorCode = "HOST_KEY_MISMATCH"

	// Internal System Errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeUnknownError  ErrorCode = "UNKNOWN_ERROR"
)

// ErrorCategory represents the general category of an error.
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryConnection    ErrorCategory = "connection"
	CategorySession       ErrorCategory = "session"
	CategoryRemote        ErrorCategory = "remote"
	CategoryFilesystem    ErrorCategory = "filesystem"
	CategoryState         ErrorCategory = "state"
	CategoryAuth          ErrorCategory = "auth"
	CategoryInternal      ErrorCategory = "internal"
)

// SFTPFSError represents a structured error with context and metadata.
type SFTPFSError struct {
	// Core error information
	Code     ErrorCode              `json:"code"`
	Category ErrorCategory          `json:"category"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`

	// Contextual information
	Context   map[string]string `json:"context,omitempty"`
	Cause     error             `json:"-"`
	Timestamp time.Time         `json:"timestamp"`

	// Operational metadata
	Component string `json:"component"`
	Operation string `json:"operation,omitempty"`

	UserFacing bool `json:"user_facing"`
}

// Error implements the error interface.
func (e *SFTPFSError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Component != "" {
		if e.Operation != "" {
			msg = fmt.Sprintf("[%s:%s] %s", e.Component, e.Operation, msg)
		} else {
			msg = fmt.Sprintf("[%s] %s", e.Component, msg)
		}
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause error for error wrapping compatibility.
func (e *SFTPFSError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error (for errors.Is compatibility).
func (e *SFTPFSError) Is(target error) bool {
	if other, ok := target.(*SFTPFSError); ok {
		return e.Code == other.Code
	}
	return false
}

// String returns a detailed string representation for logging.
func (e *SFTPFSError) String() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Code=%s", e.Code))
	parts = append(parts, fmt.Sprintf("Category=%s", e.Category))
	parts = append(parts, fmt.Sprintf("Message=%q", e.Message))

	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("Component=%s", e.Component))
	}

	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation=%s", e.Operation))
	}

	if len(e.Details) > 0 {
		details, _ := json.Marshal(e.Details)
		parts = append(parts, fmt.Sprintf("Details=%s", details))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause=%q", e.Cause.Error()))
	}

	return fmt.Sprintf("SFTPFSError{%s}", strings.Join(parts, ", "))
}

// NewError creates a new sftpfs error with default values.
func NewError(code ErrorCode, message string) *SFTPFSError {
	return &SFTPFSError{
		Code:       code,
		Category:   GetCategory(code),
		Message:    message,
		Timestamp:  time.Now(),
		Details:    make(map[string]interface{}),
		Context:    make(map[string]string),
		UserFacing: IsUserFacingByDefault(code),
	}
}

// GetCategory determines the category based on the error code.
func GetCategory(code ErrorCode) ErrorCategory {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INVALID_CONFIG") || strings.HasPrefix(codeStr, "MISSING_CONFIG") ||
		strings.HasPrefix(codeStr, "CONFIG_"):
		return CategoryConfiguration
	case strings.HasPrefix(codeStr, "CONNECTION_") || strings.HasPrefix(codeStr, "NETWORK_"):
		return CategoryConnection
	case strings.HasPrefix(codeStr, "SESSION_"):
		return CategorySession
	case strings.HasPrefix(codeStr, "REMOTE_") || strings.HasPrefix(codeStr, "OP_"):
		return CategoryRemote
	case strings.HasPrefix(codeStr, "MOUNT_") || strings.HasPrefix(codeStr, "UNMOUNT_") ||
		strings.HasPrefix(codeStr, "PERMISSION_") || strings.HasPrefix(codeStr, "PATH_") ||
		strings.HasPrefix(codeStr, "FILE_") || strings.HasPrefix(codeStr, "BAD_HANDLE"):
		return CategoryFilesystem
	case strings.HasPrefix(codeStr, "ALREADY_") || strings.HasPrefix(codeStr, "NOT_INITIALIZED") ||
		strings.HasPrefix(codeStr, "INVALID_STATE"):
		return CategoryState
	case strings.HasPrefix(codeStr, "AUTHENTICATION_") || strings.HasPrefix(codeStr, "CREDENTIALS_") ||
		strings.HasPrefix(codeStr, "HOST_KEY_"):
		return CategoryAuth
	default:
		return CategoryInternal
	}
}

// IsUserFacingByDefault determines if an error should be shown to users.
func IsUserFacingByDefault(code ErrorCode) bool {
	userFacingCodes := map[ErrorCode]bool{
		ErrCodeInvalidConfig:        true,
		ErrCodeMissingConfig:        true,
		ErrCodeConfigValidation:     true,
		ErrCodeConnectionFailed:     true,
		ErrCodeConnectionTimeout:    true,
		ErrCodeAuthenticationFailed: true,
		ErrCodeCredentialsMissing:   true,
		ErrCodeHostKeyMismatch:      true,
		ErrCodeSessionInitFailed:    true,
		ErrCodePermissionDenied:     true,
		ErrCodePathInvalid:          true,
		ErrCodeFileNotFound:         true,
		ErrCodeMountFailed:          true,
	}
	return userFacingCodes[code]
}


// WithContext adds contextual information to an error
func (e *SFTPFSError) WithContext(key, value string) *SFTPFSError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail adds detailed information to an error
func (e *SFTPFSError) WithDetail(key string, value interface{}) *SFTPFSError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithComponent sets the component for an error
func (e *SFTPFSError) WithComponent(component string) *SFTPFSError {
	e.Component = component
	return e
}

// WithOperation sets the operation for an error
func (e *SFTPFSError) WithOperation(operation string) *SFTPFSError {
	e.Operation = operation
	return e
}

// WithCause sets the underlying cause
func (e *SFTPFSError) WithCause(cause error) *SFTPFSError {
	e.Cause = cause
	return e
}


// GetRecommendation returns a user-friendly recommendation for fixing the error
func (e *SFTPFSError) GetRecommendation() string {
	recommendations := map[ErrorCode]string{
		ErrCodeConnectionFailed: "Verify the host name and port, and that an SSH server is listening. " +
			"Check firewall rules between this machine and the remote host.",
		ErrCodeConnectionTimeout: "The remote host did not answer in time. " +
			"Check network connectivity or raise remote.connect_timeout.",
		ErrCodeAuthenticationFailed: "The remote host rejected the credentials. " +
			"Verify the user name and password.",
		ErrCodeCredentialsMissing: "No password was provided. " +
			"Run from an interactive terminal so the password can be prompted.",
		ErrCodeHostKeyMismatch: "The remote host key does not match the known_hosts entry. " +
			"Confirm the host identity before updating known_hosts.",
		ErrCodeSessionInitFailed: "The SSH connection succeeded but the SFTP subsystem could not be started. " +
			"Check that the server enables the sftp subsystem for this user.",
		ErrCodeInvalidConfig: "Configuration validation failed. " +
			"Check your configuration file syntax and required parameters.",
		ErrCodeMountFailed: "Failed to mount filesystem. " +
			"Check mount point permissions and ensure FUSE is installed.",
	}

	if rec, exists := recommendations[e.Code]; exists {
		return rec
	}

	return "Please check the error message for details."
}

// UserFacingMessage returns a simplified message suitable for end users
func (e *SFTPFSError) UserFacingMessage() string {
	if !e.UserFacing {
		return "An internal error occurred."
	}

	messages := map[ErrorCode]string{
		ErrCodeConnectionFailed:     "Failed to connect to the remote host",
		ErrCodeConnectionTimeout:    "Connection to the remote host timed out",
		ErrCodeAuthenticationFailed: "Authentication failed",
		ErrCodeCredentialsMissing:   "Password not provided",
		ErrCodeHostKeyMismatch:      "Remote host key verification failed",
		ErrCodeSessionInitFailed:    "Failed to start the SFTP session",
		ErrCodeFileNotFound:         "File not found",
		ErrCodePermissionDenied:     "Permission denied",
		ErrCodeInvalidConfig:        "Invalid configuration",
		ErrCodeMountFailed:          "Failed to mount filesystem",
	}

	if msg, exists := messages[e.Code]; exists {
		return msg
	}

	return e.Message
}

// DetailedDiagnostic returns a comprehensive diagnostic message
func (e *SFTPFSError) DetailedDiagnostic() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Error: %s", e.UserFacingMessage()))
	parts = append(parts, fmt.Sprintf("Code: %s", e.Code))
	parts = append(parts, fmt.Sprintf("Category: %s", e.Category))

	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("Component: %s", e.Component))
	}

	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", e.Operation))
	}

	if len(e.Context) > 0 {
		parts = append(parts, "\nContext:")
		for k, v := range e.Context {
			parts = append(parts, fmt.Sprintf("  %s: %s", k, v))
		}
	}

	parts = append(parts, "\nRecommendation:")
	parts = append(parts, "  "+e.GetRecommendation())

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("\nUnderlying cause: %s", e.Cause.Error()))
	}

	return strings.Join(parts, "\n")
}
