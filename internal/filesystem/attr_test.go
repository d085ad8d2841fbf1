package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sftpfs/sftpfs/pkg/types"
)

func TestToAttr(t *testing.T) {
	remote := types.RemoteAttr{
		Name:        "a.txt",
		Permissions: 0o100644,
		Size:        5,
		UID:         1001,
		GID:         1002,
		Atime:       1700000000,
		Mtime:       1700000100,
	}

	t.Run("without times", func(t *testing.T) {
		attr := ToAttr(remote, false)
		assert.Equal(t, types.Attr{Mode: 0o100644, Size: 5, UID: 1001, GID: 1002}, attr)
	})

	t.Run("with times", func(t *testing.T) {
		attr := ToAttr(remote, true)
		assert.Equal(t, int64(1700000100), attr.Mtime)
		assert.Equal(t, int64(1700000000), attr.Atime)
		assert.Equal(t, uint32(0o100644), attr.Mode)
	})

	t.Run("large unsigned fields keep their width", func(t *testing.T) {
		big := types.RemoteAttr{Size: 1 << 40, UID: 4294967294, Mtime: 4294967295}
		attr := ToAttr(big, true)
		assert.Equal(t, uint64(1<<40), attr.Size)
		assert.Equal(t, uint32(4294967294), attr.UID)
		assert.Equal(t, int64(4294967295), attr.Mtime)
	})
}
