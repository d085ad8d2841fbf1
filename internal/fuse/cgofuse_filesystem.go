//go:build cgofuse
// +build cgofuse

package fuse

import (
	"syscall"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/sftpfs/sftpfs/internal/filesystem"
	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

// CgoFuseFS binds the operation adapter to the cgofuse path API. The dispatcher's
// file handle field carries the adapter's handle token unchanged.
type CgoFuseFS struct {
	fuse.FileSystemBase

	ops    filesystem.FileSystem
	logger *utils.StructuredLogger

	initialized chan struct{}
}

// NewCgoFuseFS creates the cgofuse binding for ops
func NewCgoFuseFS(ops filesystem.FileSystem, logger *utils.StructuredLogger) *CgoFuseFS {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &CgoFuseFS{
		ops:         ops,
		logger:      logger.WithComponent("fuse"),
		initialized: make(chan struct{}),
	}
}

// Init signals that the kernel finished the mount handshake
func (f *CgoFuseFS) Init() {
	close(f.initialized)
}

// Getattr gets file attributes
func (f *CgoFuseFS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	attr, errno := f.ops.Getattr(path)
	if errno != 0 {
		return negate(errno)
	}
	fillStat(stat, attr)
	return 0
}

// Readdir reads directory contents in server order, after the dot entries the remote
// listing leaves out
func (f *CgoFuseFS) Readdir(path string, fill func(name string, stat *fuse.Stat_t, ofst int64) bool, ofst int64, fh uint64) int {
	fill(".", nil, 0)
	fill("..", nil, 0)
	errno := f.ops.Readdir(path, func(name string, attr *types.Attr) bool {
		stat := &fuse.Stat_t{}
		fillStat(stat, *attr)
		return fill(name, stat, 0)
	})
	return negate(errno)
}

// Open opens a file read-only
func (f *CgoFuseFS) Open(path string, flags int) (int, uint64) {
	token, errno := f.ops.Open(path)
	if errno != 0 {
		return negate(errno), ^uint64(0)
	}
	return 0, token
}

// Create creates or truncates a file
func (f *CgoFuseFS) Create(path string, flags int, mode uint32) (int, uint64) {
	token, errno := f.ops.Create(path, mode)
	if errno != 0 {
		return negate(errno), ^uint64(0)
	}
	return 0, token
}

// Mknod creates a file with the requested mode
func (f *CgoFuseFS) Mknod(path string, mode uint32, dev uint64) int {
	return negate(f.ops.Mknod(path, mode))
}

// Read reads from a file
func (f *CgoFuseFS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	n, errno := f.ops.Read(path, buff, ofst, fh)
	if errno != 0 {
		return negate(errno)
	}
	return n
}

// Write writes to a file
func (f *CgoFuseFS) Write(path string, buff []byte, ofst int64, fh uint64) int {
	n, errno := f.ops.Write(path, buff, ofst, fh)
	if errno != 0 {
		return negate(errno)
	}
	return n
}

// Release closes a file
func (f *CgoFuseFS) Release(path string, fh uint64) int {
	return negate(f.ops.Release(path, fh))
}

func fillStat(stat *fuse.Stat_t, attr types.Attr) {
	stat.Mode = attr.Mode
	stat.Size = int64(attr.Size)
	stat.Uid = attr.UID
	stat.Gid = attr.GID
	stat.Mtim = fuse.Timespec{Sec: attr.Mtime}
	stat.Atim = fuse.Timespec{Sec: attr.Atime}
}

// negate turns an errno into the negative status cgofuse expects
func negate(errno syscall.Errno) int {
	return -int(errno)
}
