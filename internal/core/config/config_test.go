package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: s3cret
db:
  driver: sqlite
  dsn: "file::memory:"
redis:
  lookup_ttl: 30s
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 120*time.Minute, c.JWT.TTL())
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 30*time.Second, c.Redis.LookupTTL)
	assert.False(t, c.Redis.Enabled())
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, []string{"admin@techgarantias.com.br"}, c.Auth.AdminEmails)
	assert.Equal(t, 6, c.Auth.MinPasswordLen)
	assert.Equal(t, "TG", c.Warranty.NumberPrefix)
	assert.Equal(t, 5, c.Warranty.NumberRetries)
}

func TestLoad_EnvOverride(t *testing.T) {
	p := writeConfig(t, `
db:
  driver: postgres
`)
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_APP_HTTP_PORT", "9090")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 9090, c.App.HTTP.Port)
}

func TestLoad_MissingSecret(t *testing.T) {
	p := writeConfig(t, "db:\n  driver: postgres\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestLoad_BadDriver(t *testing.T) {
	p := writeConfig(t, "jwt:\n  secret: x\ndb:\n  driver: oracle\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "oracle")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
