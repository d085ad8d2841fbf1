//go:build !cgofuse
// +build !cgofuse

package fuse

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/sftpfs/sftpfs/pkg/utils"
)

// MountManager manages FUSE mount operations
type MountManager struct {
	filesystem *FileSystem
	config     *MountConfig
	logger     *utils.StructuredLogger

	mu      sync.Mutex
	server  *fuse.Server
	mounted bool
}

// NewMountManager creates a new mount manager
func NewMountManager(filesystem *FileSystem, config *MountConfig) *MountManager {
	if config == nil {
		config = DefaultMountConfig()
	}

	return &MountManager{
		filesystem: filesystem,
		config:     config,
		logger:     filesystem.logger,
	}
}

// Mount mounts the filesystem and serves it in the background
func (m *MountManager) Mount(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mounted {
		return fmt.Errorf("filesystem is already mounted")
	}

	if err := validateMountPoint(m.config.MountPoint); err != nil {
		return fmt.Errorf("invalid mount point: %w", err)
	}

	server, err := fs.Mount(m.config.MountPoint, m.filesystem.Root(), m.buildFUSEOptions())
	if err != nil {
		return fmt.Errorf("failed to mount filesystem: %w", err)
	}

	m.server = server
	m.mounted = true

	m.logger.Info("Filesystem mounted", map[string]interface{}{
		"mount_point": m.config.MountPoint,
		"fs_name":     m.config.FSName,
	})

	go func() {
		server.Wait()
		m.mu.Lock()
		if m.server == server {
			m.mounted = false
		}
		m.mu.Unlock()
		m.logger.Debug("FUSE server stopped", nil)
	}()

	return nil
}

// Unmount unmounts the filesystem
func (m *MountManager) Unmount() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.mounted || m.server == nil {
		return fmt.Errorf("filesystem is not mounted")
	}

	m.logger.Info("Unmounting filesystem", map[string]interface{}{
		"mount_point": m.config.MountPoint,
	})

	if err := m.server.Unmount(); err != nil {
		m.logger.Warn("Normal unmount failed, trying lazy unmount", map[string]interface{}{
			"error": err.Error(),
		})
		if forceErr := forceUnmount(m.config.MountPoint); forceErr != nil {
			return fmt.Errorf("unmount failed: %w (lazy unmount also failed: %v)", err, forceErr)
		}
	}

	m.mounted = false
	return nil
}

// IsMounted checks if the filesystem is currently mounted
func (m *MountManager) IsMounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// GetMountPoint returns the current mount point
func (m *MountManager) GetMountPoint() string {
	return m.config.MountPoint
}

// Wait blocks until the filesystem is unmounted
func (m *MountManager) Wait() {
	m.mu.Lock()
	server := m.server
	m.mu.Unlock()

	if server != nil {
		server.Wait()
	}
}

func (m *MountManager) buildFUSEOptions() *fs.Options {
	var zero time.Duration

	// go-fuse negotiates its own INIT capabilities, so WritebackCache is only
	// honoured by the cgofuse binding.
	opts := &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:       m.config.FSName,
			FsName:     m.config.FSName,
			Debug:      m.config.Debug,
			AllowOther: m.config.AllowOther,
			SyncRead:   !m.config.AsyncRead,
		},

		// No attribute or entry caching: every stat goes to the server.
		AttrTimeout:     &zero,
		EntryTimeout:    &zero,
		NegativeTimeout: &zero,
	}

	return opts
}

func validateMountPoint(mountPoint string) error {
	if mountPoint == "" {
		return fmt.Errorf("mount point cannot be empty")
	}

	info, err := os.Stat(mountPoint)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("mount point does not exist: %s", mountPoint)
		}
		return fmt.Errorf("cannot access mount point: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("mount point is not a directory: %s", mountPoint)
	}

	return nil
}

func forceUnmount(mountPoint string) error {
	// MNT_DETACH
	return syscall.Unmount(mountPoint, 2)
}
