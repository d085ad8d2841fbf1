package sftp

import (
	"context"
	stderrors "errors"
	"net"
	"strconv"
	"strings"

	pkgsftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/sftpfs/sftpfs/pkg/errors"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

const component = "session"

// Dial establishes the authenticated SSH connection and starts the SFTP subsystem on it.
// Every failure is terminal; the caller is expected to abort before mounting.
func Dial(ctx context.Context, cfg *Config, password string, logger *utils.StructuredLogger) (*Session, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if logger == nil {
		logger = utils.NopLogger()
	}
	logger = logger.WithComponent(component)

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "invalid session configuration").
			WithComponent(component).WithOperation("dial").WithCause(err)
	}

	clientConfig, verified, err := cfg.clientConfig(password)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "failed to configure SSH client").
			WithComponent(component).WithOperation("dial").WithCause(err).
			WithContext("known_hosts", cfg.KnownHosts)
	}
	if !verified {
		logger.Warn("Host key verification disabled, accepting any server key", map[string]interface{}{
			"host": cfg.Host,
		})
	}

	addr := cfg.Address()
	logger.Debug("Connecting", map[string]interface{}{"address": addr, "user": cfg.User})

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeConnectionFailed, "failed to connect to "+addr).
			WithComponent(component).WithOperation("dial").WithCause(err).
			WithContext("host", cfg.Host).WithContext("port", strconv.Itoa(cfg.Port))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, handshakeError(err, cfg)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := pkgsftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, errors.NewError(errors.ErrCodeSessionInitFailed, "failed to start SFTP subsystem").
			WithComponent(component).WithOperation("dial").WithCause(err).
			WithContext("host", cfg.Host)
	}

	logger.Info("SFTP session established", map[string]interface{}{
		"address": addr,
		"user":    cfg.User,
	})

	return newSession(sftpClient, sshClient, cfg, logger), nil
}

func handshakeError(err error, cfg *Config) *errors.SFTPFSError {
	var keyErr *knownhosts.KeyError
	if stderrors.As(err, &keyErr) {
		code := errors.ErrCodeHostKeyMismatch
		msg := "server host key does not match known_hosts"
		if len(keyErr.Want) == 0 {
			msg = "server host is not listed in known_hosts"
		}
		return errors.NewError(code, msg).
			WithComponent(component).WithOperation("handshake").WithCause(err).
			WithContext("host", cfg.Host).WithContext("known_hosts", cfg.KnownHosts)
	}

	// x/crypto/ssh has no typed auth error; its client returns
	// "ssh: unable to authenticate, attempted methods [...], no supported methods remain"
	if strings.Contains(err.Error(), "unable to authenticate") {
		return errors.NewError(errors.ErrCodeAuthenticationFailed, "authentication failed for user "+cfg.User).
			WithComponent(component).WithOperation("authenticate").WithCause(err).
			WithContext("host", cfg.Host)
	}

	return errors.NewError(errors.ErrCodeConnectionFailed, "SSH handshake failed").
		WithComponent(component).WithOperation("handshake").WithCause(err).
		WithContext("host", cfg.Host)
}
