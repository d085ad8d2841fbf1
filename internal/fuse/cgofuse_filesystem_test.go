//go:build cgofuse
// +build cgofuse

package fuse

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/winfsp/cgofuse/fuse"

	"github.com/sftpfs/sftpfs/pkg/types"
)

// listingOps serves a fixed directory listing and refuses everything else
type listingOps struct {
	names []string
	err   syscall.Errno
}

func (l *listingOps) Getattr(string) (types.Attr, syscall.Errno) { return types.Attr{}, syscall.ENOENT }

func (l *listingOps) Readdir(path string, fill types.FillFunc) syscall.Errno {
	if l.err != 0 {
		return l.err
	}
	for _, name := range l.names {
		attr := types.Attr{Mode: syscall.S_IFREG | 0o644, Size: 3}
		if !fill(name, &attr) {
			break
		}
	}
	return 0
}

func (l *listingOps) Open(string) (uint64, syscall.Errno)           { return 0, syscall.ENOENT }
func (l *listingOps) Create(string, uint32) (uint64, syscall.Errno) { return 0, syscall.EACCES }
func (l *listingOps) Mknod(string, uint32) syscall.Errno            { return syscall.EACCES }
func (l *listingOps) Release(string, uint64) syscall.Errno          { return 0 }

func (l *listingOps) Read(string, []byte, int64, uint64) (int, syscall.Errno) {
	return 0, syscall.EBADF
}

func (l *listingOps) Write(string, []byte, int64, uint64) (int, syscall.Errno) {
	return 0, syscall.EBADF
}

func TestCgoFuseReaddirAddsDotEntries(t *testing.T) {
	fs := NewCgoFuseFS(&listingOps{names: []string{"a.txt", "d"}}, nil)

	var names []string
	var sizes []int64
	rc := fs.Readdir("/", func(name string, stat *fuse.Stat_t, ofst int64) bool {
		names = append(names, name)
		if stat != nil {
			sizes = append(sizes, stat.Size)
		}
		return true
	}, 0, 0)

	assert.Equal(t, 0, rc)
	assert.Equal(t, []string{".", "..", "a.txt", "d"}, names)
	assert.Equal(t, []int64{3, 3}, sizes)
}

func TestCgoFuseNegatesErrno(t *testing.T) {
	fs := NewCgoFuseFS(&listingOps{err: syscall.EACCES}, nil)

	rc := fs.Readdir("/", func(string, *fuse.Stat_t, int64) bool { return true }, 0, 0)
	assert.Equal(t, -int(syscall.EACCES), rc)

	rc, fh := fs.Open("/missing", 0)
	assert.Equal(t, -int(syscall.ENOENT), rc)
	assert.Equal(t, ^uint64(0), fh)
}
