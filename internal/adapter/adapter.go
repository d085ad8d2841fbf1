package adapter

import (
	"context"
	"sync"

	"github.com/sftpfs/sftpfs/internal/audit"
	"github.com/sftpfs/sftpfs/internal/config"
	"github.com/sftpfs/sftpfs/internal/filesystem"
	"github.com/sftpfs/sftpfs/internal/fuse"
	"github.com/sftpfs/sftpfs/internal/metrics"
	"github.com/sftpfs/sftpfs/internal/storage/sftp"
	"github.com/sftpfs/sftpfs/pkg/errors"
	"github.com/sftpfs/sftpfs/pkg/health"
	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

const component = "adapter"

// DialFunc opens the remote session
type DialFunc func(ctx context.Context, cfg *sftp.Config, password string, logger *utils.StructuredLogger) (types.Session, error)

// MountFunc builds the dispatcher binding for ops
type MountFunc func(ops filesystem.FileSystem, cfg *fuse.MountConfig, logger *utils.StructuredLogger) fuse.PlatformFileSystem

// Adapter represents the main sftpfs adapter. It owns the session, the operation
// adapter, the metrics endpoint and the mount for the lifetime of one mount.
type Adapter struct {
	config   *config.Configuration
	password string
	logger   *utils.StructuredLogger

	dial  DialFunc
	mount MountFunc

	mu       sync.Mutex
	started  bool
	session  types.Session
	ops      *filesystem.Operations
	metrics  *metrics.Collector
	health   *health.Tracker
	platform fuse.PlatformFileSystem
}

// New creates a new sftpfs adapter instance
func New(ctx context.Context, cfg *config.Configuration, password string, logger *utils.StructuredLogger) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.NewError(errors.ErrCodeMissingConfig, "configuration is required").
			WithComponent(component)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewError(errors.ErrCodeConfigValidation, "invalid configuration").
			WithComponent(component).WithCause(err)
	}
	if logger == nil {
		logger = utils.NopLogger()
	}

	return &Adapter{
		config:   cfg,
		password: password,
		logger:   logger.WithComponent(component),
		dial:     dialSFTP,
		mount:    fuse.CreatePlatformMountManager,
	}, nil
}

func dialSFTP(ctx context.Context, cfg *sftp.Config, password string, logger *utils.StructuredLogger) (types.Session, error) {
	return sftp.Dial(ctx, cfg, password, logger)
}

// Start opens the session, wires the operation adapter and mounts the filesystem.
// Any failure tears down what was already started.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return errors.NewError(errors.ErrCodeAlreadyStarted, "adapter already started").
			WithComponent(component).WithOperation("start")
	}

	a.logger.Info("Starting sftpfs adapter", map[string]interface{}{
		"host":        a.config.Remote.Host,
		"user":        a.config.Remote.User,
		"mount_point": a.config.Mount.MountPoint,
	})

	session, err := a.dial(ctx, a.sessionConfig(), a.password, a.logger.WithComponent("session"))
	if err != nil {
		return err
	}
	a.session = session
	a.health = a.newHealthTracker()

	opts := filesystem.Options{
		Auditor: a.newAuditor(session),
		Health:  a.health,
		Logger:  a.logger,
	}

	if a.config.Monitoring.Metrics.Enabled {
		collector, err := metrics.NewCollector(&metrics.Config{
			Enabled: true,
			Port:    a.config.Monitoring.Metrics.Port,
			Path:    a.config.Monitoring.Metrics.Path,
		}, a.logger)
		if err != nil {
			a.teardown(ctx)
			return errors.NewError(errors.ErrCodeInternalError, "failed to create metrics collector").
				WithComponent(component).WithOperation("start").WithCause(err)
		}
		if err := collector.Start(ctx); err != nil {
			a.teardown(ctx)
			return errors.NewError(errors.ErrCodeInternalError, "failed to start metrics endpoint").
				WithComponent(component).WithOperation("start").WithCause(err)
		}
		collector.SetHealthTracker(a.health)
		a.metrics = collector
		opts.Metrics = collector
	}

	a.ops = filesystem.New(session, opts)
	a.platform = a.mount(a.ops, fuse.MountConfigFrom(a.config.Mount), a.logger)

	if err := a.platform.Mount(ctx); err != nil {
		a.teardown(ctx)
		return errors.NewError(errors.ErrCodeMountFailed, "failed to mount filesystem").
			WithComponent(component).WithOperation("start").WithCause(err).
			WithContext("mount_point", a.config.Mount.MountPoint)
	}

	a.started = true
	a.logger.Info("sftpfs adapter started", nil)
	return nil
}

// Wait blocks until the filesystem is unmounted
func (a *Adapter) Wait() {
	a.mu.Lock()
	platform := a.platform
	a.mu.Unlock()

	if platform != nil {
		platform.Wait()
	}
}

// Stop unmounts the filesystem and releases every remote resource
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return errors.NewError(errors.ErrCodeNotInitialized, "adapter not started").
			WithComponent(component).WithOperation("stop")
	}

	a.logger.Info("Stopping sftpfs adapter", nil)

	var unmountErr error
	if a.platform.IsMounted() {
		if err := a.platform.Unmount(); err != nil {
			unmountErr = errors.NewError(errors.ErrCodeUnmountFailed, "failed to unmount filesystem").
				WithComponent(component).WithOperation("stop").WithCause(err).
				WithContext("mount_point", a.config.Mount.MountPoint)
		}
	}

	a.reportSessionHealth()
	a.teardown(ctx)
	a.started = false

	a.logger.Info("sftpfs adapter stopped", nil)
	return unmountErr
}

// teardown closes open handles, the metrics endpoint and the session, in that order
func (a *Adapter) teardown(ctx context.Context) {
	if a.ops != nil {
		if err := a.ops.Close(); err != nil {
			a.logger.Warn("Closing open handles failed", map[string]interface{}{"error": err.Error()})
		}
		a.ops = nil
	}
	if a.metrics != nil {
		if err := a.metrics.Stop(ctx); err != nil {
			a.logger.Warn("Stopping metrics endpoint failed", map[string]interface{}{"error": err.Error()})
		}
		a.metrics = nil
	}
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			a.logger.Warn("Closing session failed", map[string]interface{}{"error": err.Error()})
		}
		a.session = nil
	}
}

func (a *Adapter) sessionConfig() *sftp.Config {
	return &sftp.Config{
		Host:           a.config.Remote.Host,
		Port:           a.config.Remote.Port,
		User:           a.config.Remote.User,
		KnownHosts:     a.config.Remote.KnownHosts,
		ConnectTimeout: a.config.Remote.ConnectTimeout,
	}
}

// Health returns the session health tracker, nil before Start
func (a *Adapter) Health() *health.Tracker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.health
}

// reportSessionHealth leaves a last note in the log when the session ends unhealthy
func (a *Adapter) reportSessionHealth() {
	if a.health == nil || a.health.IsHealthy(health.ComponentSession) {
		return
	}
	session, err := a.health.GetComponentHealth(health.ComponentSession)
	if err != nil {
		return
	}
	a.logger.Warn("Session unhealthy at shutdown", map[string]interface{}{
		"state":              session.State.String(),
		"consecutive_errors": session.ConsecutiveErrors,
		"last_error":         session.LastErrorMessage,
	})
}

func (a *Adapter) newHealthTracker() *health.Tracker {
	tracker := health.NewTracker(health.DefaultConfig())
	tracker.RegisterComponent(health.ComponentSession)
	tracker.AddStateChangeCallback(func(component string, oldState, newState health.HealthState, err error) {
		fields := map[string]interface{}{
			"component": component,
			"from":      oldState.String(),
			"to":        newState.String(),
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		if newState == health.StateHealthy {
			a.logger.Info("Session health recovered", fields)
		} else {
			a.logger.Warn("Session health changed", fields)
		}
	})
	return tracker
}

func (a *Adapter) newAuditor(session types.Session) types.Auditor {
	if !a.config.Audit.Enabled {
		return audit.Nop{}
	}
	return audit.New(session, audit.Config{
		Path:       a.config.Audit.Path,
		Operations: a.config.Audit.Operations,
	}, a.logger)
}
