package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("minimal config with defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
session_key: test-secret
database:
  path: ./data
`))
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:3003", cfg.Listen)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 172800, cfg.SessionMaxAge)
		assert.Equal(t, 30, cfg.ScoreRefreshInterval)
		assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
		assert.Equal(t, 300, cfg.Cache.TTL)
		require.NotNil(t, cfg.Auth)
		assert.True(t, cfg.Auth.Guest.Enabled)
		assert.False(t, cfg.Auth.OIDC.Enabled)
	})

	t.Run("full config", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
listen: 127.0.0.1:8080
session_key: test-secret
score_refresh_interval: 5
database:
  path: /var/lib/yurei
auth:
  guest:
    enabled: false
  oidc:
    enabled: true
    issuer: https://auth.example.com
    client_id: yurei
    client_secret: hush
    admin_group: yurei-admins
cache:
  type: redis
  redis_url: redis://localhost:6379
webpush:
  enabled: true
  public_key: pub
  private_key: priv
  subscriber: admin@example.com
`))
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
		assert.Equal(t, 5, cfg.ScoreRefreshInterval)
		assert.False(t, cfg.Auth.Guest.Enabled)
		assert.True(t, cfg.Auth.OIDC.Enabled)
		assert.Equal(t, "yurei-admins", cfg.Auth.OIDC.AdminGroup)
		assert.Equal(t, CacheTypeRedis, cfg.Cache.Type)
		assert.True(t, cfg.WebPush.Enabled)
	})

	t.Run("missing session key", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
database:
  path: ./data
`))
		assert.ErrorContains(t, err, "session_key")
	})

	t.Run("oidc enabled without issuer", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
session_key: test-secret
database:
  path: ./data
auth:
  oidc:
    enabled: true
`))
		assert.ErrorContains(t, err, "oidc")
	})

	t.Run("redis cache without url", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
session_key: test-secret
database:
  path: ./data
cache:
  type: redis
`))
		assert.ErrorContains(t, err, "redis_url")
	})

	t.Run("webpush enabled without keys", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
session_key: test-secret
database:
  path: ./data
webpush:
  enabled: true
`))
		assert.ErrorContains(t, err, "webpush")
	})
}
