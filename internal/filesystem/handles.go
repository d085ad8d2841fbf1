package filesystem

import (
	"sync"

	"github.com/sftpfs/sftpfs/pkg/errors"
	"github.com/sftpfs/sftpfs/pkg/types"
)

// Handle is the adapter-side state of one open file. Only its token crosses into the
// kernel dispatcher.
type Handle struct {
	mu    sync.Mutex
	file  types.RemoteFile
	path  string
	flags int
}

// Path returns the path the handle was opened with
func (h *Handle) Path() string { return h.path }

// Flags returns the open flags used on the remote side
func (h *Handle) Flags() int { return h.flags }

// ReadAt seeks and reads as one step so concurrent users of the handle cannot
// interleave.
func (h *Handle) ReadAt(buf []byte, offset int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.file.Seek(offset); err != nil {
		return 0, err
	}
	return h.file.Read(buf)
}

// WriteAt seeks and writes as one step
func (h *Handle) WriteAt(data []byte, offset int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.file.Seek(offset); err != nil {
		return 0, err
	}
	return h.file.Write(data)
}

func (h *Handle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file.Close()
}

// HandleTable maps dispatcher tokens to open handles. Tokens start at 1 and are never
// reused; 0 means no handle.
type HandleTable struct {
	mu    sync.Mutex
	next  uint64
	files map[uint64]*Handle
}

// NewHandleTable creates an empty table
func NewHandleTable() *HandleTable {
	return &HandleTable{
		files: make(map[uint64]*Handle),
	}
}

// Register takes ownership of file and returns its token
func (t *HandleTable) Register(file types.RemoteFile, path string, flags int) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	t.files[t.next] = &Handle{file: file, path: path, flags: flags}
	return t.next
}

// Resolve returns the handle behind token, or a BAD_HANDLE error
func (t *HandleTable) Resolve(token uint64) (*Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, ok := t.files[token]
	if !ok {
		return nil, badHandle(token)
	}
	return h, nil
}

// Release removes token and closes its remote file. found is false when the token was
// not registered.
func (t *HandleTable) Release(token uint64) (found bool, err error) {
	t.mu.Lock()
	h, ok := t.files[token]
	delete(t.files, token)
	t.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, h.close()
}

// Len returns the number of open handles
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// CloseAll releases every remaining handle and returns the first close error
func (t *HandleTable) CloseAll() error {
	t.mu.Lock()
	files := t.files
	t.files = make(map[uint64]*Handle)
	t.mu.Unlock()

	var firstErr error
	for _, h := range files {
		if err := h.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func badHandle(token uint64) error {
	return errors.NewError(errors.ErrCodeBadHandle, "no open file for handle").
		WithComponent("filesystem").
		WithDetail("token", token)
}
