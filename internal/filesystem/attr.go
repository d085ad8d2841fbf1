package filesystem

import (
	"github.com/sftpfs/sftpfs/pkg/types"
)

// ToAttr converts a remote attribute record. Permission bits, including the file type,
// are copied verbatim. Times are only copied when withTimes is set: directory listings
// carry them, getattr leaves them zero.
func ToAttr(remote types.RemoteAttr, withTimes bool) types.Attr {
	attr := types.Attr{
		Mode: remote.Permissions,
		Size: remote.Size,
		UID:  remote.UID,
		GID:  remote.GID,
	}
	if withTimes {
		attr.Mtime = int64(remote.Mtime)
		attr.Atime = int64(remote.Atime)
	}
	return attr
}
