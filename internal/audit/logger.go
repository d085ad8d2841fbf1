// Package audit appends a line per filesystem operation to a log file on the remote
// side, over the same session the filesystem uses. Recording is best effort: failures
// are logged locally and never reach the operation being audited.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	logFlags        = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	logMode         = 0o700
)

// Config selects the remote log file and the operations that are recorded
type Config struct {
	Path       string
	Operations []string
}

// Logger records operations to the remote audit file. No handle is kept open between
// records.
type Logger struct {
	session types.Session
	path    string
	ops     map[string]bool
	logger  *utils.StructuredLogger
	now     func() time.Time

	// serializes open/append/close so concurrent records do not overwrite each other
	mu sync.Mutex
}

var _ types.Auditor = (*Logger)(nil)

// New creates an audit logger writing through session
func New(session types.Session, cfg Config, logger *utils.StructuredLogger) *Logger {
	if logger == nil {
		logger = utils.NopLogger()
	}
	ops := make(map[string]bool, len(cfg.Operations))
	for _, op := range cfg.Operations {
		ops[op] = true
	}
	return &Logger{
		session: session,
		path:    cfg.Path,
		ops:     ops,
		logger:  logger.WithComponent("audit"),
		now:     time.Now,
	}
}

// Enabled reports whether op is recorded
func (l *Logger) Enabled(op string) bool {
	return l.ops[op]
}

// Record appends "[YYYY-MM-DD HH:MM:SS] Operation: <op>, Path: <path>" to the remote
// log. It never retries and never returns an error.
func (l *Logger) Record(op, path string) {
	if !l.ops[op] {
		return
	}

	line := FormatEntry(l.now(), op, path)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Write requests carry an explicit offset and not every server honours the append
	// flag, so the line goes after the size reported by a stat. An existing log is
	// opened without O_CREATE and keeps its mode.
	flags := logFlags
	var offset int64
	if attr, err := l.session.Stat(l.path); err == nil {
		flags &^= os.O_CREATE
		offset = int64(attr.Size)
	}

	file, err := l.session.OpenFile(l.path, flags, logMode)
	if err != nil {
		l.logger.Warn("Failed to open audit log", map[string]interface{}{
			"audit_path": l.path,
			"op":         op,
			"error":      err.Error(),
		})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.Debug("Failed to close audit log", map[string]interface{}{
				"audit_path": l.path,
				"error":      err.Error(),
			})
		}
	}()

	if offset > 0 {
		if err := file.Seek(offset); err != nil {
			l.logger.Warn("Failed to seek audit log", map[string]interface{}{
				"audit_path": l.path,
				"error":      err.Error(),
			})
			return
		}
	}

	if _, err := file.Write([]byte(line)); err != nil {
		l.logger.Warn("Failed to write audit log", map[string]interface{}{
			"audit_path": l.path,
			"op":         op,
			"error":      err.Error(),
		})
	}
}

// FormatEntry renders one audit line in local time
func FormatEntry(ts time.Time, op, path string) string {
	return fmt.Sprintf("[%s] Operation: %s, Path: %s\n", ts.Format(timestampLayout), op, path)
}

// Nop is the auditor used when auditing is disabled
type Nop struct{}

// Record does nothing
func (Nop) Record(string, string) {}
