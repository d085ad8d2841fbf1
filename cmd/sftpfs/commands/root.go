// Package commands implements the sftpfs command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sftpfs/sftpfs/internal/adapter"
	"github.com/sftpfs/sftpfs/internal/config"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// options holds the flag values of one invocation
type options struct {
	configFile  string
	port        int
	logLevel    string
	auditLog    string
	noAudit     bool
	metricsPort int
	knownHosts  string
}

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the sftpfs command
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sftpfs <username> <host> <mountpoint>",
		Short: "Mount a remote directory tree over SFTP",
		Long: `sftpfs mounts the file tree of an SFTP server on a local directory through FUSE.

The password is read from the terminal. Selected operations are appended to an audit
log on the server (default /tmp/fuse_audit_log.txt).`,
		Example: `  sftpfs alice files.example.com /mnt/files
  sftpfs --port 2222 --no-audit alice files.example.com /mnt/files
  SFTPFS_LOG_LEVEL=DEBUG sftpfs alice files.example.com /mnt/files`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		Args:          exactArgsWithUsage(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	flags.IntVarP(&opts.port, "port", "p", 22, "SSH port of the server")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (TRACE, DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&opts.auditLog, "audit-log", "", "remote path of the audit log")
	flags.BoolVar(&opts.noAudit, "no-audit", false, "disable the remote audit log")
	flags.IntVar(&opts.metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port")
	flags.StringVar(&opts.knownHosts, "known-hosts", "", "known_hosts file used to verify the server key")

	return cmd, opts
}

// exactArgsWithUsage prints the usage to stderr when the positional argument count is wrong
func exactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			_ = cmd.Usage()
			return fmt.Errorf("accepts %d arg(s), received %d", n, len(args))
		}
		return nil
	}
}

// buildConfig layers defaults, the config file, the environment, flags and the
// positional arguments, then validates the result
func buildConfig(cmd *cobra.Command, opts *options, args []string) (*config.Configuration, error) {
	cfg := config.NewDefault()

	if opts.configFile != "" {
		if err := cfg.LoadFromFile(opts.configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Remote.Port = opts.port
	}
	if flags.Changed("log-level") {
		cfg.Global.LogLevel = opts.logLevel
	}
	if flags.Changed("audit-log") {
		cfg.Audit.Path = opts.auditLog
	}
	if flags.Changed("no-audit") {
		cfg.Audit.Enabled = !opts.noAudit
	}
	if flags.Changed("metrics-port") {
		cfg.Monitoring.Metrics.Enabled = true
		cfg.Monitoring.Metrics.Port = opts.metricsPort
	}
	if flags.Changed("known-hosts") {
		cfg.Remote.KnownHosts = opts.knownHosts
	}

	cfg.Remote.User = args[0]
	cfg.Remote.Host = args[1]
	cfg.Mount.MountPoint = args[2]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMount(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := buildConfig(cmd, opts, args)
	if err != nil {
		return err
	}

	logger, err := utils.SetupLogging(cfg.Global.LogLevel, cfg.Global.LogFormat, cfg.Global.LogFile,
		cfg.Global.ComponentLevels)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	password, err := promptPassword("Enter password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := adapter.New(ctx, cfg, password, logger)
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	unmounted := make(chan struct{})
	go func() {
		a.Wait()
		close(unmounted)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, unmounting", nil)
	case <-unmounted:
		logger.Info("Filesystem unmounted", nil)
	}

	return a.Stop(context.Background())
}
