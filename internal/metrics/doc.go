/*
Package metrics provides Prometheus metrics for the sftpfs filesystem callbacks.

Architecture

	┌─────────────┐
	│  Collector  │  ← fed by internal/filesystem after every callback
	└──────┬──────┘
	       │
	   ┌───┴────────────────────────────┐
	   │                                │
	┌──▼───────────┐         ┌─────────▼──────────┐
	│  Prometheus  │         │  HTTP Endpoints     │
	│   Registry   │         │  /metrics           │
	│              │         │  /health            │
	│ - Counters   │         │  /debug/operations  │
	│ - Histograms │         └─────────────────────┘
	│ - Gauge      │
	└──────────────┘

# Exported metrics

	sftpfs_operations_total{operation,status}      callbacks served, status success|error
	sftpfs_operation_duration_seconds{operation}   callback latency including the remote round trip
	sftpfs_operation_bytes{operation}              bytes read or written, entries listed
	sftpfs_errors_total{operation,errno}           failures by the errno returned to the kernel
	sftpfs_open_handles                            remote files currently open

# Usage

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled: true,
		Port:    9090,
		Path:    "/metrics",
	}, logger)
	if err != nil {
		return err
	}
	if err := collector.Start(ctx); err != nil {
		return err
	}
	defer collector.Stop(context.Background())

/health answers 200 with the overall state from the health.Tracker set through
SetHealthTracker, and 503 once the session is unavailable.

The endpoint is off by default. When disabled, NewCollector still returns a Collector
whose recording methods do nothing, so callers never need a nil check.
*/
package metrics
