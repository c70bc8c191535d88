package config

import (
	"github.com/katana-project/artwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseWithDefaults_Example(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, artwork.ExampleConfig, 0o644))

	cfg, err := ParseWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Host)
	assert.Equal(t, "http://localhost:8096", cfg.Server.BaseURL)
	assert.Equal(t, 1.0, cfg.Server.PixelRatio)
	assert.Equal(t, 90, cfg.Server.Quality)
	assert.False(t, cfg.Remote.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Remote.CacheExpDuration())
	assert.Equal(t, 10*time.Second, cfg.Remote.TimeoutDuration())
}

func TestParseWithDefaults_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, `
[server]
base_url = "https://media.example.com/jellyfin"

[remote]
token = "secret"
`)

	cfg, err := ParseWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.HTTP.Host)
	assert.Equal(t, 1.0, cfg.Server.PixelRatio)
	assert.Equal(t, 90, cfg.Server.Quality)
	assert.True(t, cfg.Remote.Enabled())
	assert.Equal(t, DefaultCacheExp, cfg.Remote.CacheExp)
	assert.Equal(t, DefaultTimeout, cfg.Remote.Timeout)
}

func TestParseWithDefaults_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing base url":  `[server]`,
		"relative base url": "[server]\nbase_url = \"/jellyfin\"",
		"quality":           "[server]\nbase_url = \"http://host\"\nquality = 120",
		"negative timeout":  "[server]\nbase_url = \"http://host\"\n[remote]\ntimeout = -1",
		"malformed":         `[server`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeConfig(t, path, content)

			_, err := ParseWithDefaults(path)
			assert.Error(t, err)
		})
	}
}

func TestParse_Missing(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[server]\nbase_url = \"http://host\"")

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { changes <- cfg }, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	writeConfig(t, path, "[server]\nbase_url = \"http://host\"\npixel_ratio = 2.0")

	select {
	case cfg := <-changes:
		assert.Equal(t, 2.0, cfg.Server.PixelRatio)
	case <-time.After(5 * time.Second):
		t.Fatal("configuration was not reloaded")
	}

	// invalid configurations are skipped
	writeConfig(t, path, "[server]\nbase_url = \"\"")
	select {
	case cfg := <-changes:
		t.Fatalf("unexpected reload with base url %q", cfg.Server.BaseURL)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[server]\nbase_url = \"http://host\"")

	var (
		entered = make(chan struct{}, 4)
		release = make(chan struct{})
		calls   atomic.Int32
	)
	w, err := NewWatcher(path, func(*Config) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	writeConfig(t, path, "[server]\nbase_url = \"http://host\"\npixel_ratio = 2.0")
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("configuration was not reloaded")
	}

	closed := make(chan error, 1)
	go func() { closed <- w.Close() }()

	select {
	case <-closed:
		t.Fatal("close returned during a reload")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}

	// a reload racing with close is dropped
	w.reload()
	assert.Equal(t, int32(1), calls.Load())
}
