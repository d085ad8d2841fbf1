//go:build !cgofuse
// +build !cgofuse

package fuse

import (
	"github.com/sftpfs/sftpfs/internal/filesystem"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

// CreatePlatformMountManager creates the go-fuse mount manager
func CreatePlatformMountManager(ops filesystem.FileSystem, config *MountConfig, logger *utils.StructuredLogger) PlatformFileSystem {
	return NewMountManager(NewFileSystem(ops, logger), config)
}
