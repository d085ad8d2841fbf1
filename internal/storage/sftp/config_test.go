package sftp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Host: "h", User: "u", Port: 22}, false},
		{"no host", Config{User: "u", Port: 22}, true},
		{"no user", Config{Host: "h", Port: 22}, true},
		{"zero port", Config{Host: "h", User: "u"}, true},
		{"port too large", Config{Host: "h", User: "u", Port: 65536}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "files.example.com", Port: 2222}
	assert.Equal(t, "files.example.com:2222", cfg.Address())

	cfg = &Config{Host: "::1", Port: 22}
	assert.Equal(t, "[::1]:22", cfg.Address())
}

func TestHostKeyCallbackWithoutKnownHosts(t *testing.T) {
	cfg := NewDefaultConfig()

	callback, verified, err := cfg.HostKeyCallback()
	require.NoError(t, err)
	assert.NotNil(t, callback)
	assert.False(t, verified)
}

func TestHostKeyCallbackMissingFile(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.KnownHosts = filepath.Join(t.TempDir(), "absent")

	_, _, err := cfg.HostKeyCallback()
	assert.Error(t, err)
}

func TestHostKeyCallbackEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cfg := NewDefaultConfig()
	cfg.KnownHosts = path

	callback, verified, err := cfg.HostKeyCallback()
	require.NoError(t, err)
	assert.NotNil(t, callback)
	assert.True(t, verified)
}
