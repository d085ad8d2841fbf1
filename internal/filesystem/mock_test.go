package filesystem

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sftpfs/sftpfs/pkg/types"
)

type mockEntry struct {
	attr types.RemoteAttr
	data []byte
}

// mockSession is an in-memory types.Session that counts remote calls
type mockSession struct {
	mu      sync.Mutex
	entries map[string]*mockEntry
	order   []string
	calls   map[string]int
	fail    map[string]error
	closed  int
}

func newMockSession() *mockSession {
	return &mockSession{
		entries: map[string]*mockEntry{
			"/": {attr: types.RemoteAttr{Name: "/", Permissions: 0o040755}},
		},
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
}

func (m *mockSession) addFile(path string, data []byte, perm uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, &mockEntry{
		attr: types.RemoteAttr{
			Name:        baseName(path),
			Permissions: 0o100000 | perm,
			Size:        uint64(len(data)),
			UID:         1000,
			GID:         1000,
			Atime:       1700000000,
			Mtime:       1700000100,
		},
		data: data,
	})
}

func (m *mockSession) addDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, &mockEntry{
		attr: types.RemoteAttr{
			Name:        baseName(path),
			Permissions: 0o040755,
			UID:         1000,
			GID:         1000,
			Atime:       1700000200,
			Mtime:       1700000300,
		},
	})
}

func (m *mockSession) put(path string, e *mockEntry) {
	if _, ok := m.entries[path]; !ok {
		m.order = append(m.order, path)
	}
	m.entries[path] = e
}

func (m *mockSession) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockSession) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *mockSession) setFail(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[name] = err
}

func (m *mockSession) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
	return m.fail[name]
}

func (m *mockSession) Stat(path string) (types.RemoteAttr, error) {
	if err := m.record("stat"); err != nil {
		return types.RemoteAttr{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[path]
	if !ok {
		return types.RemoteAttr{}, os.ErrNotExist
	}
	return e.attr, nil
}

func (m *mockSession) OpenDir(path string) (types.DirReader, error) {
	if err := m.record("opendir"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[path]; !ok {
		return nil, os.ErrNotExist
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	var listing []types.RemoteAttr
	for _, p := range m.order {
		if p == path || !strings.HasPrefix(p, prefix) {
			continue
		}
		if !strings.Contains(p[len(prefix):], "/") {
			listing = append(listing, m.entries[p].attr)
		}
	}
	return &mockDir{session: m, entries: listing}, nil
}

func (m *mockSession) OpenFile(path string, flags int, mode uint32) (types.RemoteFile, error) {
	if err := m.record("openfile"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[path]
	if !ok {
		if flags&os.O_CREATE == 0 {
			return nil, os.ErrNotExist
		}
		e = &mockEntry{attr: types.RemoteAttr{Name: baseName(path), Permissions: 0o100000 | mode}}
		m.put(path, e)
	}
	if flags&os.O_TRUNC != 0 {
		e.data = nil
		e.attr.Size = 0
	}
	return &mockFile{session: m, entry: e, flags: flags}, nil
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

type mockDir struct {
	session *mockSession
	entries []types.RemoteAttr
	pos     int
	closed  bool
}

func (d *mockDir) Next() (types.RemoteAttr, bool) {
	if d.pos >= len(d.entries) {
		return types.RemoteAttr{}, false
	}
	d.pos++
	return d.entries[d.pos-1], true
}

func (d *mockDir) Close() error {
	d.closed = true
	return d.session.record("closedir")
}

type mockFile struct {
	session *mockSession
	entry   *mockEntry
	flags   int
	offset  int64
	closed  bool
}

func (f *mockFile) Seek(offset int64) error {
	if err := f.session.record("seek"); err != nil {
		return err
	}
	f.offset = offset
	return nil
}

func (f *mockFile) Read(p []byte) (int, error) {
	if err := f.session.record("read"); err != nil {
		return 0, err
	}
	if f.flags&(os.O_WRONLY|os.O_RDWR) == os.O_WRONLY {
		return 0, fmt.Errorf("handle not open for reading: %w", os.ErrPermission)
	}
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	if f.offset >= int64(len(f.entry.data)) {
		return 0, nil
	}
	n := copy(p, f.entry.data[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *mockFile) Write(p []byte) (int, error) {
	if err := f.session.record("write"); err != nil {
		return 0, err
	}
	if f.flags&(os.O_WRONLY|os.O_RDWR) == 0 {
		return 0, fmt.Errorf("handle not open for writing: %w", os.ErrPermission)
	}
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	end := f.offset + int64(len(p))
	if end > int64(len(f.entry.data)) {
		grown := make([]byte, end)
		copy(grown, f.entry.data)
		f.entry.data = grown
	}
	copy(f.entry.data[f.offset:], p)
	f.offset = end
	f.entry.attr.Size = uint64(len(f.entry.data))
	return len(p), nil
}

func (f *mockFile) Close() error {
	f.closed = true
	return f.session.record("close")
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

type auditCall struct {
	op   string
	path string
}

type recordingAuditor struct {
	mu    sync.Mutex
	calls []auditCall
}

func (a *recordingAuditor) Record(op, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, auditCall{op, path})
}

func (a *recordingAuditor) ops() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.calls))
	for _, c := range a.calls {
		out = append(out, c.op)
	}
	return out
}

type recordingMetrics struct {
	mu          sync.Mutex
	successes   map[string]int
	failures    map[string]int
	errors      map[string]int
	openHandles int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		successes: make(map[string]int),
		failures:  make(map[string]int),
		errors:    make(map[string]int),
	}
}

func (r *recordingMetrics) RecordOperation(op string, _ time.Duration, _ int64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if success {
		r.successes[op]++
	} else {
		r.failures[op]++
	}
}

func (r *recordingMetrics) RecordError(op string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[op]++
}

func (r *recordingMetrics) SetOpenHandles(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openHandles = n
}

func (r *recordingMetrics) GetMetrics() map[string]interface{} {
	return map[string]interface{}{}
}
