package sftp

import (
	stderrors "errors"
	"io"
	"os"
	"sync"

	pkgsftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/sftpfs/sftpfs/pkg/errors"
	"github.com/sftpfs/sftpfs/pkg/types"
	"github.com/sftpfs/sftpfs/pkg/utils"
)

// Session is the process-wide SFTP session. Every primitive, including those issued
// through files and directory readers it hands out, runs under one mutex.
type Session struct {
	mu     sync.Mutex
	client *pkgsftp.Client
	conn   *ssh.Client
	config *Config
	logger *utils.StructuredLogger
	closed bool
}

var _ types.Session = (*Session)(nil)

func newSession(client *pkgsftp.Client, conn *ssh.Client, cfg *Config, logger *utils.StructuredLogger) *Session {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Session{
		client: client,
		conn:   conn,
		config: cfg,
		logger: logger,
	}
}

// NewSessionFromClient wraps an already running SFTP client. It is used when the
// transport is not SSH, for example an in-process server.
func NewSessionFromClient(client *pkgsftp.Client, logger *utils.StructuredLogger) *Session {
	return newSession(client, nil, NewDefaultConfig(), logger)
}

// Stat returns the attributes of path
func (s *Session) Stat(path string) (types.RemoteAttr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("stat"); err != nil {
		return types.RemoteAttr{}, err
	}

	info, err := s.client.Stat(path)
	if err != nil {
		return types.RemoteAttr{}, err
	}
	return fromFileInfo(info), nil
}

// OpenDir reads the directory listing of path. The listing is fetched in full under
// the session lock and then handed out one entry at a time. It never contains "." or
// "..": the client drops them.
func (s *Session) OpenDir(path string) (types.DirReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("opendir"); err != nil {
		return nil, err
	}

	infos, err := s.client.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]types.RemoteAttr, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fromFileInfo(info))
	}
	return &dirReader{entries: entries}, nil
}

// OpenFile opens path with os.OpenFile style flags. mode only applies to a file this
// call creates; it is set with a separate chmod because the open request carries no
// permissions. Existing files keep their mode.
func (s *Session) OpenFile(path string, flags int, mode uint32) (types.RemoteFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("open"); err != nil {
		return nil, err
	}

	// SFTP reports an O_EXCL collision as a generic failure, so existence is
	// checked with a stat instead
	creating := false
	if flags&os.O_CREATE != 0 && mode != 0 {
		if _, err := s.client.Stat(path); stderrors.Is(err, os.ErrNotExist) {
			creating = true
		}
	}

	f, err := s.client.OpenFile(path, flags)
	if err != nil {
		return nil, err
	}

	if creating {
		if err := s.client.Chmod(path, os.FileMode(mode&0o7777)); err != nil {
			s.logger.Debug("chmod after create failed", map[string]interface{}{
				"path":  path,
				"mode":  mode,
				"error": err.Error(),
			})
		}
	}

	return &remoteFile{session: s, file: f}, nil
}

// Close shuts down the SFTP subsystem and then the SSH connection
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			firstErr = err
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.logger.Info("SFTP session closed")
	return firstErr
}

func (s *Session) checkOpen(op string) error {
	if s.closed {
		return errors.NewError(errors.ErrCodeSessionClosed, "session is closed").
			WithComponent(component).WithOperation(op)
	}
	return nil
}

// fromFileInfo prefers the raw SFTP attributes and falls back to the os.FileInfo view.
func fromFileInfo(info os.FileInfo) types.RemoteAttr {
	attr := types.RemoteAttr{Name: info.Name()}

	if st, ok := info.Sys().(*pkgsftp.FileStat); ok {
		attr.Permissions = st.Mode
		attr.Size = st.Size
		attr.UID = st.UID
		attr.GID = st.GID
		attr.Atime = st.Atime
		attr.Mtime = st.Mtime
		return attr
	}

	attr.Permissions = uint32(info.Mode().Perm())
	if info.IsDir() {
		attr.Permissions |= 0o040000
	} else if info.Mode().IsRegular() {
		attr.Permissions |= 0o100000
	}
	if info.Size() > 0 {
		attr.Size = uint64(info.Size())
	}
	attr.Mtime = uint32(info.ModTime().Unix())
	return attr
}

type dirReader struct {
	entries []types.RemoteAttr
	pos     int
}

func (d *dirReader) Next() (types.RemoteAttr, bool) {
	if d.pos >= len(d.entries) {
		return types.RemoteAttr{}, false
	}
	entry := d.entries[d.pos]
	d.pos++
	return entry, true
}

func (d *dirReader) Close() error {
	d.entries = nil
	return nil
}

type remoteFile struct {
	session *Session
	file    *pkgsftp.File
}

func (f *remoteFile) Seek(offset int64) error {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	_, err := f.file.Seek(offset, io.SeekStart)
	return err
}

// Read fills p from the current offset. End of file is a short or empty read, not an
// error.
func (f *remoteFile) Read(p []byte) (int, error) {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	if err := f.session.checkOpen("read"); err != nil {
		return 0, err
	}

	total := 0
	for total < len(p) {
		n, err := f.file.Read(p[total:])
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func (f *remoteFile) Write(p []byte) (int, error) {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	if err := f.session.checkOpen("write"); err != nil {
		return 0, err
	}
	return f.file.Write(p)
}

func (f *remoteFile) Close() error {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	return f.file.Close()
}
