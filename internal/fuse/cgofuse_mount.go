//go:build cgofuse
// +build cgofuse

package fuse

import (
	"context"
	"fmt"
	"sync"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/sftpfs/sftpfs/pkg/utils"
)

// CgoFuseMountManager manages cgofuse-based mounts
type CgoFuseMountManager struct {
	filesystem *CgoFuseFS
	config     *MountConfig
	logger     *utils.StructuredLogger

	mu      sync.Mutex
	host    *fuse.FileSystemHost
	mounted bool
	done    chan struct{}
}

// NewCgoFuseMountManager creates a new cgofuse mount manager
func NewCgoFuseMountManager(filesystem *CgoFuseFS, config *MountConfig) *CgoFuseMountManager {
	if config == nil {
		config = DefaultMountConfig()
	}
	return &CgoFuseMountManager{
		filesystem: filesystem,
		config:     config,
		logger:     filesystem.logger,
	}
}

// Mount starts the host loop and returns once the kernel has initialised the mount
func (m *CgoFuseMountManager) Mount(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mounted {
		return fmt.Errorf("filesystem already mounted")
	}

	host := fuse.NewFileSystemHost(m.filesystem)
	options := m.buildOptions()
	done := make(chan struct{})
	failed := make(chan struct{})

	go func() {
		defer close(done)
		if !host.Mount(m.config.MountPoint, options) {
			close(failed)
		}
		m.mu.Lock()
		m.mounted = false
		m.mu.Unlock()
	}()

	select {
	case <-m.filesystem.initialized:
	case <-failed:
		return fmt.Errorf("failed to mount filesystem at %s", m.config.MountPoint)
	case <-ctx.Done():
		host.Unmount()
		return ctx.Err()
	}

	m.host = host
	m.done = done
	m.mounted = true

	m.logger.Info("Filesystem mounted", map[string]interface{}{
		"mount_point": m.config.MountPoint,
		"options":     options,
	})
	return nil
}

// Unmount unmounts the filesystem
func (m *CgoFuseMountManager) Unmount() error {
	m.mu.Lock()
	host := m.host
	mounted := m.mounted
	m.mu.Unlock()

	if !mounted || host == nil {
		return fmt.Errorf("filesystem not mounted")
	}

	m.logger.Info("Unmounting filesystem", map[string]interface{}{
		"mount_point": m.config.MountPoint,
	})
	if !host.Unmount() {
		return fmt.Errorf("unmount of %s failed", m.config.MountPoint)
	}
	return nil
}

// IsMounted returns whether the filesystem is mounted
func (m *CgoFuseMountManager) IsMounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// Wait blocks until the host loop exits
func (m *CgoFuseMountManager) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (m *CgoFuseMountManager) buildOptions() []string {
	options := []string{"-o", "fsname=" + m.config.FSName}

	var kernel []string
	if m.config.WritebackCache {
		kernel = append(kernel, "writeback_cache")
	}
	if m.config.AsyncRead {
		kernel = append(kernel, "async_read")
	}
	if m.config.AllowOther {
		kernel = append(kernel, "allow_other")
	}
	for _, opt := range kernel {
		options = append(options, "-o", opt)
	}

	if m.config.Debug {
		options = append(options, "-d")
	}
	return options
}
