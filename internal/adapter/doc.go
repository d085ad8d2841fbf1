/*
Package adapter provides the central orchestration component that wires the sftpfs
subsystems together for one mount.

# Architecture Role

	┌─────────────────────────────────────────────┐
	│            Kernel VFS/FUSE                  │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│              ADAPTER LAYER                  │ ← This Package
	│  • Session establishment                    │
	│  • Lifecycle Management                     │
	│  • Configuration Integration                │
	└─────────────────────────────────────────────┘
	        │           │            │
	┌───────┴─────┐ ┌───┴─────┐ ┌────┴──────┐
	│ SFTP Session│ │ Auditor │ │ Metrics   │
	│  (storage)  │ │ (remote)│ │(optional) │
	└─────────────┘ └─────────┘ └───────────┘

# Lifecycle Management

Start performs, in order:

 1. Dial the SSH endpoint and open the SFTP subsystem (internal/storage/sftp).
 2. Build the audit logger on the same session, or a no-op auditor when auditing is
    disabled.
 3. Start the Prometheus endpoint when monitoring.metrics.enabled is set.
 4. Create the operation adapter (internal/filesystem) around the session.
 5. Mount it through the platform binding (internal/fuse).

A failure at any step tears down what was already started and returns an
*errors.SFTPFSError, so nothing is mounted on a broken session.

Stop unmounts, closes handles still open, stops the metrics endpoint and closes the
session. Wait blocks until the kernel unmounts the filesystem.

# Usage Example

	adapter, err := adapter.New(ctx, cfg, password, logger)
	if err != nil {
		return err
	}
	if err := adapter.Start(ctx); err != nil {
		return err
	}
	defer adapter.Stop(context.Background())

	adapter.Wait()
*/
package adapter
