package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidatePath validates that a local file path is safe and does not contain directory
// traversal attempts.
//
// Returns an error if the path contains:
//   - ".." directory traversal sequences
//   - Absolute paths when not expected
//
// Example usage:
//
//	if err := ValidatePath(cfg.Global.LogFile, true); err != nil {
//		return fmt.Errorf("invalid log file: %w", err)
//	}
func ValidatePath(p string, allowAbsolute bool) error {
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(p)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains directory traversal: %s", p)
	}

	if !allowAbsolute && filepath.IsAbs(cleanPath) {
		return fmt.Errorf("absolute paths not allowed: %s", p)
	}

	return nil
}

// ValidateRemotePath checks a path on the SFTP server. Remote paths always use forward
// slashes regardless of the local platform and must be absolute.
func ValidateRemotePath(p string) error {
	if p == "" {
		return fmt.Errorf("remote path cannot be empty")
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("remote path must be absolute: %s", p)
	}
	if path.Clean(p) == "/" {
		return fmt.Errorf("remote path must name a file: %s", p)
	}
	for _, elem := range strings.Split(p, "/") {
		if elem == ".." {
			return fmt.Errorf("remote path contains directory traversal: %s", p)
		}
	}
	return nil
}

// RemotePath turns a path relative to the mount root into an absolute remote path.
// The empty string and "." both denote the root.
func RemotePath(rel string) string {
	return path.Clean("/" + rel)
}

// JoinRemotePath joins a remote directory and an entry name
func JoinRemotePath(dir, name string) string {
	return path.Join(RemotePath(dir), name)
}
