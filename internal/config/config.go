package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

// DefaultAuditPath is the remote file audit records are appended to
const DefaultAuditPath = "/tmp/fuse_audit_log.txt"

// Configuration represents the complete application configuration
type Configuration struct {
	Global     GlobalConfig     `yaml:"global"`
	Remote     RemoteConfig     `yaml:"remote"`
	Mount      MountConfig      `yaml:"mount"`
	Audit      AuditConfig      `yaml:"audit"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// GlobalConfig represents global application settings
type GlobalConfig struct {
	LogLevel        string            `yaml:"log_level"`
	LogFormat       string            `yaml:"log_format"`
	LogFile         string            `yaml:"log_file"`
	ComponentLevels map[string]string `yaml:"component_levels,omitempty"`
}

// RemoteConfig describes the SFTP endpoint
type RemoteConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	KnownHosts     string        `yaml:"known_hosts"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// MountConfig represents FUSE mount settings
type MountConfig struct {
	MountPoint     string `yaml:"mount_point"`
	FSName         string `yaml:"fs_name"`
	Debug          bool   `yaml:"debug"`
	WritebackCache bool   `yaml:"writeback_cache"`
	AsyncRead      bool   `yaml:"async_read"`
	AllowOther     bool   `yaml:"allow_other"`
}

// AuditConfig controls the remote audit log
type AuditConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Path       string   `yaml:"path"`
	Operations []string `yaml:"operations"`
}

// MonitoringConfig represents monitoring settings
type MonitoringConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig represents metrics settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// DefaultAuditOperations returns the callbacks audited out of the box. readdir and
// write are left out.
func DefaultAuditOperations() []string {
	return []string{
		types.OpGetattr,
		types.OpOpen,
		types.OpRead,
		types.OpRelease,
		types.OpCreate,
		types.OpMknod,
	}
}

// NewDefault returns a configuration with sensible defaults
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel:  "INFO",
			LogFormat: "text",
			LogFile:   "",
		},
		Remote: RemoteConfig{
			Port:           22,
			ConnectTimeout: 30 * time.Second,
		},
		Mount: MountConfig{
			FSName:         "sftpfs",
			Debug:          true,
			WritebackCache: true,
			AsyncRead:      true,
			AllowOther:     false,
		},
		Audit: AuditConfig{
			Enabled:    true,
			Path:       DefaultAuditPath,
			Operations: DefaultAuditOperations(),
		},
		Monitoring: MonitoringConfig{
			Metrics: MetricsConfig{
				Enabled: false,
				Port:    9090,
				Path:    "/metrics",
			},
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Configuration) LoadFromEnv() error {
	// Global settings
	if val := os.Getenv("SFTPFS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("SFTPFS_LOG_FORMAT"); val != "" {
		c.Global.LogFormat = val
	}
	if val := os.Getenv("SFTPFS_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}
	if val := os.Getenv("SFTPFS_COMPONENT_LEVELS"); val != "" {
		levels := make(map[string]string)
		for _, pair := range strings.Split(val, ",") {
			if pair = strings.TrimSpace(pair); pair == "" {
				continue
			}
			component, level, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid SFTPFS_COMPONENT_LEVELS entry: %s (want component=level)", pair)
			}
			levels[strings.TrimSpace(component)] = strings.TrimSpace(level)
		}
		c.Global.ComponentLevels = levels
	}

	// Remote settings
	if val := os.Getenv("SFTPFS_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid SFTPFS_PORT: %w", err)
		}
		c.Remote.Port = port
	}
	if val := os.Getenv("SFTPFS_KNOWN_HOSTS"); val != "" {
		c.Remote.KnownHosts = val
	}
	if val := os.Getenv("SFTPFS_CONNECT_TIMEOUT"); val != "" {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid SFTPFS_CONNECT_TIMEOUT: %w", err)
		}
		c.Remote.ConnectTimeout = duration
	}

	// Mount settings
	if val := os.Getenv("SFTPFS_DEBUG"); val != "" {
		c.Mount.Debug = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SFTPFS_ALLOW_OTHER"); val != "" {
		c.Mount.AllowOther = strings.ToLower(val) == "true"
	}

	// Audit settings
	if val := os.Getenv("SFTPFS_AUDIT_ENABLED"); val != "" {
		c.Audit.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SFTPFS_AUDIT_PATH"); val != "" {
		c.Audit.Path = val
	}
	if val := os.Getenv("SFTPFS_AUDIT_OPERATIONS"); val != "" {
		var ops []string
		for _, op := range strings.Split(val, ",") {
			if op = strings.TrimSpace(op); op != "" {
				ops = append(ops, strings.ToLower(op))
			}
		}
		c.Audit.Operations = ops
	}

	// Metrics settings
	if val := os.Getenv("SFTPFS_METRICS_ENABLED"); val != "" {
		c.Monitoring.Metrics.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SFTPFS_METRICS_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid SFTPFS_METRICS_PORT: %w", err)
		}
		c.Monitoring.Metrics.Port = port
	}

	return nil
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	if _, err := utils.ParseLogLevel(c.Global.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s (must be one of: TRACE, DEBUG, INFO, WARN, ERROR)",
			c.Global.LogLevel)
	}
	if _, err := utils.ParseLogFormat(c.Global.LogFormat); err != nil {
		return fmt.Errorf("invalid log_format: %s (must be text or json)", c.Global.LogFormat)
	}
	for component, level := range c.Global.ComponentLevels {
		if _, err := utils.ParseLogLevel(level); err != nil {
			return fmt.Errorf("invalid log level for component %s: %s", component, level)
		}
	}
	if c.Global.LogFile != "" {
		if err := utils.ValidatePath(c.Global.LogFile, true); err != nil {
			return fmt.Errorf("invalid log_file: %w", err)
		}
	}

	if c.Remote.Host == "" {
		return fmt.Errorf("remote host is required")
	}
	if c.Remote.User == "" {
		return fmt.Errorf("remote user is required")
	}
	if c.Remote.Port <= 0 || c.Remote.Port > 65535 {
		return fmt.Errorf("remote port must be between 1 and 65535")
	}
	if c.Remote.ConnectTimeout < 0 {
		return fmt.Errorf("connect_timeout cannot be negative")
	}

	if c.Mount.MountPoint == "" {
		return fmt.Errorf("mount point is required")
	}

	if c.Audit.Enabled {
		if err := utils.ValidateRemotePath(c.Audit.Path); err != nil {
			return fmt.Errorf("invalid audit path: %w", err)
		}
		for _, op := range c.Audit.Operations {
			if !isKnownOperation(op) {
				return fmt.Errorf("unknown audit operation: %s (must be one of: %s)",
					op, strings.Join(types.AllOperations, ", "))
			}
		}
	}

	if c.Monitoring.Metrics.Enabled {
		if c.Monitoring.Metrics.Port <= 0 || c.Monitoring.Metrics.Port > 65535 {
			return fmt.Errorf("metrics port must be between 1 and 65535")
		}
		if !strings.HasPrefix(c.Monitoring.Metrics.Path, "/") {
			return fmt.Errorf("metrics path must start with /")
		}
	}

	return nil
}

func isKnownOperation(op string) bool {
	for _, known := range types.AllOperations {
		if op == known {
			return true
		}
	}
	return false
}
