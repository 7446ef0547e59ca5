package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAuthKey = "279a2e9d-83b3-c416-7e65-f0c40e8caf90:fx"

func TestLoadBytes(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		doc := []byte(`
auth:
  key: ` + testAuthKey + `
server:
  url: https://api-free.deepl.com
http:
  maxretries: 3
  useragent: my-app/2.0
  ratelimit: 10
log:
  level: debug
  pretty: true
`)
		settings, err := LoadBytes(doc)
		require.NoError(t, err)
		assert.Equal(t, testAuthKey, settings.Auth.Key)
		assert.Equal(t, "https://api-free.deepl.com", settings.Server.URL)
		assert.Equal(t, 3, settings.HTTP.MaxRetries)
		assert.Equal(t, "my-app/2.0", settings.HTTP.UserAgent)
		assert.Equal(t, 10.0, settings.HTTP.RateLimit)
		assert.Equal(t, "debug", settings.Log.Level)
		assert.True(t, settings.Log.Pretty)
	})

	t.Run("defaults fill unset fields", func(t *testing.T) {
		settings, err := LoadBytes([]byte("auth:\n  key: " + testAuthKey + "\n"))
		require.NoError(t, err)
		assert.Equal(t, 5, settings.HTTP.MaxRetries)
		assert.Equal(t, "info", settings.Log.Level)
		assert.False(t, settings.Log.Pretty)
		assert.Empty(t, settings.Server.URL)
	})

	t.Run("environment overrides document", func(t *testing.T) {
		t.Setenv("DEEPL_AUTH_KEY", testAuthKey)
		t.Setenv("DEEPL_HTTP_MAXRETRIES", "1")
		t.Setenv("DEEPL_LOG_LEVEL", "warn")

		settings, err := LoadBytes([]byte("http:\n  maxretries: 9\n"))
		require.NoError(t, err)
		assert.Equal(t, testAuthKey, settings.Auth.Key)
		assert.Equal(t, 1, settings.HTTP.MaxRetries)
		assert.Equal(t, "warn", settings.Log.Level)
	})

	t.Run("missing auth key fails validation", func(t *testing.T) {
		_, err := LoadBytes([]byte("log:\n  level: info\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("malformed server URL fails validation", func(t *testing.T) {
		doc := []byte("auth:\n  key: " + testAuthKey + "\nserver:\n  url: not-a-url\n")
		_, err := LoadBytes(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		doc := []byte("auth:\n  key: " + testAuthKey + "\nlog:\n  level: loud\n")
		_, err := LoadBytes(doc)
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deepl.yaml")
		doc := "auth:\n  key: " + testAuthKey + "\nhttp:\n  maxretries: 2\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		settings, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, testAuthKey, settings.Auth.Key)
		assert.Equal(t, 2, settings.HTTP.MaxRetries)
	})

	t.Run("missing file is skipped, environment still applies", func(t *testing.T) {
		t.Setenv("DEEPL_AUTH_KEY", testAuthKey)

		settings, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, testAuthKey, settings.Auth.Key)
		assert.Equal(t, 5, settings.HTTP.MaxRetries)
	})
}
