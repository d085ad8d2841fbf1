// Package filesystem implements the operation adapter that turns FUSE callbacks into
// requests on the remote SFTP session. Both FUSE bindings in internal/fuse drive the
// same FileSystem, so errno mapping, handle ownership and auditing live here once.
package filesystem

import (
	"syscall"

	"github.com/sftpfs/sftpfs/pkg/types"
)

// FileSystem is the fixed callback set served to the kernel dispatcher. Paths are
// absolute remote paths. A zero Errno means success.
type FileSystem interface {
	// Metadata operations
	Getattr(path string) (types.Attr, syscall.Errno)
	Readdir(path string, fill types.FillFunc) syscall.Errno

	// File operations
	Open(path string) (uint64, syscall.Errno)
	Create(path string, mode uint32) (uint64, syscall.Errno)
	Mknod(path string, mode uint32) syscall.Errno
	Release(path string, token uint64) syscall.Errno

	// I/O operations
	Read(path string, buf []byte, offset int64, token uint64) (int, syscall.Errno)
	Write(path string, data []byte, offset int64, token uint64) (int, syscall.Errno)
}

var _ FileSystem = (*Operations)(nil)
