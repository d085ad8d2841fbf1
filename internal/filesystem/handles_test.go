package filesystem

import (
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sftpfs/sftpfs/pkg/errors"
)

func TestHandleTableLifecycle(t *testing.T) {
	session := newMockSession()
	session.addFile("/a.txt", []byte("hello"), 0o644)
	table := NewHandleTable()

	file, err := session.OpenFile("/a.txt", 0, 0)
	require.NoError(t, err)

	token := table.Register(file, "/a.txt", 0)
	assert.Equal(t, uint64(1), token, "tokens start at 1")
	assert.Equal(t, 1, table.Len())

	h, err := table.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "/a.txt", h.Path())

	found, err := table.Release(token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, file.(*mockFile).closed)
	assert.Equal(t, 0, table.Len())

	_, err = table.Resolve(token)
	require.Error(t, err)
	assert.Equal(t, syscall.EBADF, errors.ToErrno(err))

	found, err = table.Release(token)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestHandleTableNeverReusesTokens(t *testing.T) {
	session := newMockSession()
	session.addFile("/a.txt", nil, 0o644)
	table := NewHandleTable()

	f1, _ := session.OpenFile("/a.txt", 0, 0)
	first := table.Register(f1, "/a.txt", 0)
	_, _ = table.Release(first)

	f2, _ := session.OpenFile("/a.txt", 0, 0)
	second := table.Register(f2, "/a.txt", 0)
	assert.NotEqual(t, first, second)
}

func TestHandleTableResolveZero(t *testing.T) {
	table := NewHandleTable()

	_, err := table.Resolve(0)
	assert.Equal(t, syscall.EBADF, errors.ToErrno(err))
}

func TestHandleTableCloseAll(t *testing.T) {
	session := newMockSession()
	session.addFile("/a.txt", nil, 0o644)
	table := NewHandleTable()

	var files []*mockFile
	for i := 0; i < 3; i++ {
		f, err := session.OpenFile("/a.txt", 0, 0)
		require.NoError(t, err)
		files = append(files, f.(*mockFile))
		table.Register(f, "/a.txt", 0)
	}

	require.NoError(t, table.CloseAll())
	assert.Equal(t, 0, table.Len())
	for _, f := range files {
		assert.True(t, f.closed)
	}
}

func TestHandleTableConcurrentRegister(t *testing.T) {
	session := newMockSession()
	session.addFile("/a.txt", nil, 0o644)
	table := NewHandleTable()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		tokens = make(map[uint64]bool)
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, _ := session.OpenFile("/a.txt", 0, 0)
			token := table.Register(f, "/a.txt", 0)
			mu.Lock()
			tokens[token] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, tokens, 50, "every registration gets a distinct token")
	assert.Equal(t, 50, table.Len())
}
