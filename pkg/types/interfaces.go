package types

import (
	"time"
)

// Session defines the primitives of an authenticated remote file-transfer session.
// All calls are synchronous and block until the remote endpoint responds.
type Session interface {
	// Metadata operations
	Stat(path string) (RemoteAttr, error)
	OpenDir(path string) (DirReader, error)

	// File operations
	OpenFile(path string, flags int, mode uint32) (RemoteFile, error)

	// Lifecycle
	Close() error
}

// DirReader iterates over the entries of an opened remote directory
type DirReader interface {
	// Next returns the next entry, or false once the listing is exhausted.
	Next() (RemoteAttr, bool)
	Close() error
}

// RemoteFile is an open remote file object
type RemoteFile interface {
	Seek(offset int64) error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Auditor records filesystem operations to an audit trail
type Auditor interface {
	Record(operation, path string)
}

// MetricsCollector defines the metrics collection interface
type MetricsCollector interface {
	RecordOperation(operation string, duration time.Duration, size int64, success bool)
	RecordError(operation string, err error)
	SetOpenHandles(n int)
	GetMetrics() map[string]interface{}
}

// HealthRecorder receives the outcome of every remote call
type HealthRecorder interface {
	RecordOutcome(component string, err error)
}
