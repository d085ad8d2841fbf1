/*
Package types provides the core interfaces and data structures shared across sftpfs.

The package defines the contracts between the layers of the system:

	┌─────────────────────────────────────────────┐
	│           FUSE bindings (internal/fuse)     │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│   Operation adapter (internal/filesystem)   │
	└─────────────────────────────────────────────┘
	          │             │              │
	┌─────────┴───┐ ┌───────┴─────┐ ┌──────┴──────┐
	│   Session   │ │   Auditor   │ │   Metrics   │
	│   (SFTP)    │ │             │ │             │
	└─────────────┘ └─────────────┘ └─────────────┘

# Core Interfaces

Session:
The primitives of one authenticated remote session: stat, directory listing and
file open. Implemented by internal/storage/sftp and by in-memory fakes in tests.

RemoteFile and DirReader:
Objects owned by a Session. RemoteFile supports seek/read/write/close, DirReader
yields entries in the order the remote listing produced them.

Auditor:
Best-effort recording of filesystem operations. Implementations must never block
or fail the operation they accompany.

MetricsCollector:
Per-operation observability, implemented by internal/metrics.

HealthRecorder:
Receives the outcome of every remote call, implemented by pkg/health.

# Data Structures

RemoteAttr mirrors the remote attribute record; Attr is the local record returned to
the kernel. The translation between them lives in internal/filesystem.
*/
package types
