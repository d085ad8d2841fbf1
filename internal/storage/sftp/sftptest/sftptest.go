// Package sftptest runs SFTP servers inside the test process. The in-memory and local
// disk variants talk over pipes; NewSSHServer listens on loopback and speaks real SSH.
package sftptest

import (
	"io"
	"testing"

	pkgsftp "github.com/pkg/sftp"
	"github.com/stretchr/testify/require"

	"github.com/sftpfs/sftpfs/internal/storage/sftp"
)

type server interface {
	Serve() error
	Close() error
}

type pipeConn struct {
	io.Reader
	io.WriteCloser
}

// clientWriter closes the server's write end together with its own, so the client's
// receive loop sees EOF and Close returns instead of waiting on the pipe forever.
type clientWriter struct {
	*io.PipeWriter
	serverWrite *io.PipeWriter
}

func (w clientWriter) Close() error {
	err := w.PipeWriter.Close()
	_ = w.serverWrite.Close()
	return err
}

// NewMemSession serves an empty in-memory tree and returns a session to it together
// with a raw client for seeding and inspecting the tree. InMemHandler ignores setstat,
// so permission changes are not observable through it.
func NewMemSession(t testing.TB) (*sftp.Session, *pkgsftp.Client) {
	t.Helper()
	return connect(t, func(conn io.ReadWriteCloser) (server, error) {
		return pkgsftp.NewRequestServer(conn, pkgsftp.InMemHandler()), nil
	})
}

// NewOSSession serves the local filesystem. Callers work under t.TempDir().
func NewOSSession(t testing.TB) (*sftp.Session, *pkgsftp.Client) {
	t.Helper()
	return connect(t, func(conn io.ReadWriteCloser) (server, error) {
		return pkgsftp.NewServer(conn)
	})
}

func connect(t testing.TB, newServer func(io.ReadWriteCloser) (server, error)) (*sftp.Session, *pkgsftp.Client) {
	t.Helper()

	clientRead, serverWrite := io.Pipe()
	serverRead, clientWrite := io.Pipe()

	srv, err := newServer(pipeConn{serverRead, serverWrite})
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()

	client, err := pkgsftp.NewClientPipe(clientRead, clientWriter{clientWrite, serverWrite})
	require.NoError(t, err)

	session := sftp.NewSessionFromClient(client, nil)
	t.Cleanup(func() {
		_ = session.Close()
		_ = srv.Close()
	})
	return session, client
}
