package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentforge/internal/logging"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  base_url: https://forge.example.com
  timeout: 90s
ui:
  dark_mode: true
logging:
  debug_mode: true
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://forge.example.com", cfg.Server.BaseURL)
	assert.True(t, cfg.UI.DarkMode)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FORGE_SERVER_URL", "https://override.example.com")
	t.Setenv("FORGE_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.Server.BaseURL)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "https://saved.example.com"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.Server.BaseURL)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Timeout = "soon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestRequestTimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Timeout = "garbage"
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
}

func TestDirHonorsForgeHome(t *testing.T) {
	t.Setenv("FORGE_HOME", "/tmp/forge-test")
	assert.Equal(t, "/tmp/forge-test", Dir())
	assert.Equal(t, "/tmp/forge-test/config.yaml", Path())
}

func TestWatchReloadsLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))
	require.NoError(t, logging.Initialize(dir))
	defer logging.CloseAll()
	require.False(t, logging.IsDebugMode())

	reloaded := make(chan struct{}, 1)
	stop, err := Watch(path, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	cfg := DefaultConfig()
	cfg.Logging.DebugMode = true
	require.NoError(t, cfg.Save(path))

	select {
	case <-reloaded:
		assert.True(t, logging.IsDebugMode())
	case <-time.After(3 * time.Second):
		t.Fatal("config change was not observed")
	}
}
