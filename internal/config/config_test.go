package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads values from the yaml file", func(t *testing.T) {
		// Given: a config file overriding a few keys
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
http-port: "8081"
allowed-origins: ["http://localhost:3000"]
shutdown-timeout: 3s
redis:
  enabled: true
  host: redis
  history-size: 20
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: file values win and defaults fill the rest
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.Equal(t, []string{"http://localhost:3000"}, conf.AllowedOrigins)
		assert.Equal(t, 3*time.Second, conf.ShutdownTimeout)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, int64(20), conf.Redis.HistorySize)
	})

	t.Run("Falls back to the environment without a file", func(t *testing.T) {
		// Given: no config file and a port in the environment
		t.Setenv("HTTP_PORT", "7070")
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When: loading
		conf, err := Load(path)

		// Then: env and defaults are used
		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, 10*time.Second, conf.ShutdownTimeout)
	})

	t.Run("Rejects a negative history size", func(t *testing.T) {
		// Given: a history size that would not bound the list
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("redis:\n  history-size: -5\n"), 0o600))

		// When: loading it
		_, err := Load(path)

		// Then: the config is refused
		require.ErrorIs(t, err, ErrInvalidHistorySize)
	})

	t.Run("Rejects a history size from the environment", func(t *testing.T) {
		t.Setenv("REDIS_HISTORY_SIZE", "0")

		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.ErrorIs(t, err, ErrInvalidHistorySize)
	})

	t.Run("MustLoad panics on a malformed file", func(t *testing.T) {
		// Given: a file that is not yaml
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: [unclosed"), 0o600))

		// Then: MustLoad panics
		assert.Panics(t, func() { MustLoad(path) })
	})
}
