package fuse

import (
	"context"

	"github.com/sftpfs/sftpfs/internal/config"
)

// PlatformFileSystem is a mounted binding of the operation adapter
type PlatformFileSystem interface {
	Mount(ctx context.Context) error
	Unmount() error
	IsMounted() bool
	Wait()
}

// MountConfig contains mount-specific configuration
type MountConfig struct {
	MountPoint     string
	FSName         string
	Debug          bool
	WritebackCache bool
	AsyncRead      bool
	AllowOther     bool
}

// DefaultMountConfig mirrors the mount defaults of config.NewDefault
func DefaultMountConfig() *MountConfig {
	return MountConfigFrom(config.NewDefault().Mount)
}

// MountConfigFrom converts the mount section of the application configuration
func MountConfigFrom(cfg config.MountConfig) *MountConfig {
	return &MountConfig{
		MountPoint:     cfg.MountPoint,
		FSName:         cfg.FSName,
		Debug:          cfg.Debug,
		WritebackCache: cfg.WritebackCache,
		AsyncRead:      cfg.AsyncRead,
		AllowOther:     cfg.AllowOther,
	}
}
