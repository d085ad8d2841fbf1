/*
Package config provides configuration management for sftpfs.

Configuration is assembled from several sources with increasing precedence:

	┌─────────────────────────────────────────────┐
	│          Command-line flags                 │ ← Highest Priority
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│        Environment Variables                │
	│            (SFTPFS_*)                       │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│         Configuration File (YAML)           │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│           Default Values                    │ ← Lowest Priority
	└─────────────────────────────────────────────┘

The positional arguments of the sftpfs command (user, host, mount point) are applied
last and always win.

# Usage Examples

	cfg := config.NewDefault()

	if err := cfg.LoadFromFile("/etc/sftpfs/config.yaml"); err != nil {
		log.Fatal(err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatal(err)
	}

	cfg.Remote.User = "alice"
	cfg.Remote.Host = "files.example.com"
	cfg.Mount.MountPoint = "/mnt/files"

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

Configuration file format:

	global:
	  log_level: INFO
	  log_format: text
	  log_file: ""
	  component_levels:
	    filesystem: DEBUG

	remote:
	  port: 22
	  known_hosts: "/home/alice/.ssh/known_hosts"
	  connect_timeout: 30s

	mount:
	  fs_name: sftpfs
	  debug: true
	  writeback_cache: true
	  async_read: true
	  allow_other: false

	audit:
	  enabled: true
	  path: /tmp/fuse_audit_log.txt
	  operations: [getattr, open, read, release, create, mknod]

	monitoring:
	  metrics:
	    enabled: false
	    port: 9090
	    path: /metrics

Environment variable mapping:

	SFTPFS_LOG_LEVEL="DEBUG"
	SFTPFS_LOG_FORMAT="json"
	SFTPFS_LOG_FILE="/var/log/sftpfs.log"
	SFTPFS_COMPONENT_LEVELS="filesystem=DEBUG,audit=WARN"
	SFTPFS_PORT="2222"
	SFTPFS_KNOWN_HOSTS="/home/alice/.ssh/known_hosts"
	SFTPFS_CONNECT_TIMEOUT="10s"
	SFTPFS_DEBUG="false"
	SFTPFS_ALLOW_OTHER="true"
	SFTPFS_AUDIT_ENABLED="false"
	SFTPFS_AUDIT_PATH="/var/log/fs_audit.log"
	SFTPFS_AUDIT_OPERATIONS="getattr,open,write"
	SFTPFS_METRICS_ENABLED="true"
	SFTPFS_METRICS_PORT="9090"

Validate rejects unknown log levels and formats, a missing host, user or mount point,
out-of-range ports, a relative audit path and unknown audit operation names.
*/
package config
