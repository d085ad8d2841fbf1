package utils

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		path          string
		allowAbsolute bool
		wantErr       bool
		errContains   string
	}{
		{
			name:          "valid relative path",
			path:          "logs/sftpfs.log",
			allowAbsolute: false,
			wantErr:       false,
		},
		{
			name:          "valid absolute path when allowed",
			path:          "/var/log/sftpfs.log",
			allowAbsolute: true,
			wantErr:       false,
		},
		{
			name:          "absolute path not allowed",
			path:          "/var/log/sftpfs.log",
			allowAbsolute: false,
			wantErr:       true,
			errContains:   "absolute paths not allowed",
		},
		{
			name:          "directory traversal with ..",
			path:          "../../../etc/passwd",
			allowAbsolute: false,
			wantErr:       true,
			errContains:   "directory traversal",
		},
		{
			name:          "empty path",
			path:          "",
			allowAbsolute: false,
			wantErr:       true,
			errContains:   "cannot be empty",
		},
		{
			name:          "current directory reference",
			path:          "./logs/sftpfs.log",
			allowAbsolute: false,
			wantErr:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, tt.allowAbsolute)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ValidatePath() error = %v, should contain %q", err, tt.errContains)
				}
			}
		})
	}
}

func TestValidateRemotePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"default audit log", "/tmp/fuse_audit_log.txt", false},
		{"nested", "/var/log/sftpfs/audit.log", false},
		{"empty", "", true},
		{"relative", "tmp/audit.log", true},
		{"root", "/", true},
		{"traversal", "/tmp/../etc/passwd", true},
		{"dots in name", "/tmp/audit..log", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRemotePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRemotePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestRemotePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want string
	}{
		{"", "/"},
		{".", "/"},
		{"a.txt", "/a.txt"},
		{"d/b.txt", "/d/b.txt"},
		{"/already/absolute", "/already/absolute"},
		{"d//x/", "/d/x"},
	}

	for _, tt := range tests {
		if got := RemotePath(tt.rel); got != tt.want {
			t.Errorf("RemotePath(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestJoinRemotePath(t *testing.T) {
	t.Parallel()

	if got := JoinRemotePath("", "a.txt"); got != "/a.txt" {
		t.Errorf("JoinRemotePath(root) = %q", got)
	}
	if got := JoinRemotePath("/d", "b.txt"); got != "/d/b.txt" {
		t.Errorf("JoinRemotePath(/d) = %q", got)
	}
	if got := JoinRemotePath("d", "b.txt"); got != "/d/b.txt" {
		t.Errorf("JoinRemotePath(d) = %q", got)
	}
}

func BenchmarkRemotePath(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = RemotePath("some/nested/dir/file.dat")
	}
}
