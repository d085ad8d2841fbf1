package filesystem

import (
	"os"
	"syscall"
	"time"

	"github.com/sftpfs/sftpfs/pkg/errors"
	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

const (
	// createFlags includes read access: with writeback caching the kernel reads
	// through handles obtained from create.
	createFlags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	createMode  = 0o644
	mknodFlags  = os.O_WRONLY | os.O_CREATE | os.O_TRUNC

	sessionComponent = "session"
)

// Options carries the optional collaborators of Operations
type Options struct {
	Auditor types.Auditor
	Metrics types.MetricsCollector
	Health  types.HealthRecorder
	Logger  *utils.StructuredLogger
}

// Operations serves the FUSE callback set against one remote session
type Operations struct {
	session types.Session
	handles *HandleTable
	auditor types.Auditor
	metrics types.MetricsCollector
	health  types.HealthRecorder
	logger  *utils.StructuredLogger
}

// New creates the operation adapter. The session stays owned by the caller.
func New(session types.Session, opts Options) *Operations {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Operations{
		session: session,
		handles: NewHandleTable(),
		auditor: opts.Auditor,
		metrics: opts.Metrics,
		health:  opts.Health,
		logger:  logger.WithComponent("filesystem"),
	}
}

// Handles exposes the handle table
func (o *Operations) Handles() *HandleTable {
	return o.handles
}

// Getattr stats path. Times are left zero.
func (o *Operations) Getattr(path string) (types.Attr, syscall.Errno) {
	start := time.Now()
	o.logger.Debug("Getting attributes", map[string]interface{}{"path": path})
	o.audit(types.OpGetattr, path)

	remote, err := o.session.Stat(path)
	if err != nil {
		return types.Attr{}, o.fail(types.OpGetattr, path, start, err)
	}

	o.succeed(types.OpGetattr, start, 0)
	return ToAttr(remote, false), 0
}

// Readdir lists path into fill in the order the server returned the entries. The
// listing stops without error once fill refuses an entry.
func (o *Operations) Readdir(path string, fill types.FillFunc) syscall.Errno {
	start := time.Now()
	o.logger.Debug("Reading directory", map[string]interface{}{"path": path})
	o.audit(types.OpReaddir, path)

	dir, err := o.session.OpenDir(path)
	if err != nil {
		return o.fail(types.OpReaddir, path, start, err)
	}
	defer func() {
		if cerr := dir.Close(); cerr != nil {
			o.logger.Debug("Closing directory failed", map[string]interface{}{
				"path":  path,
				"error": cerr.Error(),
			})
		}
	}()

	count := 0
	for {
		entry, ok := dir.Next()
		if !ok {
			break
		}
		attr := ToAttr(entry, true)
		if !fill(entry.Name, &attr) {
			break
		}
		count++
	}

	o.succeed(types.OpReaddir, start, int64(count))
	return 0
}

// Open opens path read-only and returns its handle token
func (o *Operations) Open(path string) (uint64, syscall.Errno) {
	start := time.Now()
	o.logger.Debug("Opening file", map[string]interface{}{"path": path})
	o.audit(types.OpOpen, path)

	file, err := o.session.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return 0, o.fail(types.OpOpen, path, start, err)
	}

	token := o.register(file, path, os.O_RDONLY)
	o.succeed(types.OpOpen, start, 0)
	return token, 0
}

// Create creates or truncates path with mode 0644. The requested mode is not used.
func (o *Operations) Create(path string, mode uint32) (uint64, syscall.Errno) {
	start := time.Now()
	o.logger.Debug("Creating file", map[string]interface{}{"path": path, "mode": mode})
	o.audit(types.OpCreate, path)

	file, err := o.session.OpenFile(path, createFlags, createMode)
	if err != nil {
		return 0, o.fail(types.OpCreate, path, start, err)
	}

	token := o.register(file, path, createFlags)
	o.succeed(types.OpCreate, start, 0)
	return token, 0
}

// Mknod creates or truncates path with the caller's mode and closes it right away
func (o *Operations) Mknod(path string, mode uint32) syscall.Errno {
	start := time.Now()
	o.logger.Debug("Creating node", map[string]interface{}{"path": path, "mode": mode})
	o.audit(types.OpMknod, path)

	file, err := o.session.OpenFile(path, mknodFlags, mode)
	if err != nil {
		return o.fail(types.OpMknod, path, start, err)
	}
	if err := file.Close(); err != nil {
		o.logger.Debug("Closing new node failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	o.succeed(types.OpMknod, start, 0)
	return 0
}

// Read reads up to len(buf) bytes at offset through token. A short count means end of
// file.
func (o *Operations) Read(path string, buf []byte, offset int64, token uint64) (int, syscall.Errno) {
	start := time.Now()
	h, err := o.handles.Resolve(token)
	if err != nil {
		return 0, o.fail(types.OpRead, path, start, err)
	}

	o.logger.Trace("Reading file", map[string]interface{}{
		"path":   path,
		"size":   len(buf),
		"offset": offset,
	})
	o.audit(types.OpRead, path)

	n, err := h.ReadAt(buf, offset)
	if err != nil {
		return 0, o.fail(types.OpRead, path, start, err)
	}

	o.succeed(types.OpRead, start, int64(n))
	return n, 0
}

// Write writes data at offset through token and returns the count the server accepted
func (o *Operations) Write(path string, data []byte, offset int64, token uint64) (int, syscall.Errno) {
	start := time.Now()
	h, err := o.handles.Resolve(token)
	if err != nil {
		return 0, o.fail(types.OpWrite, path, start, err)
	}

	o.logger.Trace("Writing file", map[string]interface{}{
		"path":   path,
		"size":   len(data),
		"offset": offset,
	})
	o.audit(types.OpWrite, path)

	n, err := h.WriteAt(data, offset)
	if err != nil {
		return 0, o.fail(types.OpWrite, path, start, err)
	}

	o.succeed(types.OpWrite, start, int64(n))
	return n, 0
}

// Release closes the handle behind token. It always succeeds, also for unknown
// tokens.
func (o *Operations) Release(path string, token uint64) syscall.Errno {
	start := time.Now()
	o.logger.Debug("Releasing file", map[string]interface{}{"path": path})
	o.audit(types.OpRelease, path)

	if token != 0 {
		found, err := o.handles.Release(token)
		if err != nil {
			o.logger.Warn("Closing remote file failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		if found {
			o.updateOpenHandles()
		}
	}

	o.succeed(types.OpRelease, start, 0)
	return 0
}

// Close releases every handle still open, typically at unmount
func (o *Operations) Close() error {
	err := o.handles.CloseAll()
	o.updateOpenHandles()
	return err
}

func (o *Operations) register(file types.RemoteFile, path string, flags int) uint64 {
	token := o.handles.Register(file, path, flags)
	o.updateOpenHandles()
	return token
}

func (o *Operations) audit(op, path string) {
	if o.auditor != nil {
		o.auditor.Record(op, path)
	}
}

func (o *Operations) succeed(op string, start time.Time, size int64) {
	o.recordHealth(nil)
	if o.metrics != nil {
		o.metrics.RecordOperation(op, time.Since(start), size, true)
	}
}

func (o *Operations) fail(op, path string, start time.Time, err error) syscall.Errno {
	errno := errors.ToErrno(err)

	fields := map[string]interface{}{
		"op":    op,
		"path":  path,
		"errno": errno.Error(),
		"error": err.Error(),
	}
	if errno == syscall.ENOENT {
		o.logger.Debug("Operation failed", fields)
	} else {
		o.logger.Warn("Operation failed", fields)
	}

	o.recordHealth(err)
	if o.metrics != nil {
		o.metrics.RecordOperation(op, time.Since(start), 0, false)
		o.metrics.RecordError(op, err)
	}
	return errno
}

func (o *Operations) recordHealth(err error) {
	if o.health != nil {
		o.health.RecordOutcome(sessionComponent, err)
	}
}

func (o *Operations) updateOpenHandles() {
	if o.metrics != nil {
		o.metrics.SetOpenHandles(o.handles.Len())
	}
}
