//go:build !cgofuse
// +build !cgofuse

package fuse

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/sftpfs/sftpfs/pkg/types"
)

// safeInt64ToUint64 safely converts int64 to uint64, preventing negative values
func safeInt64ToUint64(i int64) uint64 {
	if i < 0 {
		return 0
	}
	return uint64(i)
}

// FillAttr copies an attribute record into the kernel reply. Link count, device and
// block fields stay zero.
func FillAttr(out *fuse.Attr, attr types.Attr) {
	out.Mode = attr.Mode
	out.Size = attr.Size
	out.Uid = attr.UID
	out.Gid = attr.GID
	out.Mtime = safeInt64ToUint64(attr.Mtime)
	out.Atime = safeInt64ToUint64(attr.Atime)
}
