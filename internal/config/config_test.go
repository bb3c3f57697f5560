package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, "clear", cfg.API.ExpiryPolicy)
	assert.Equal(t, 15, cfg.Output.PageSize)
	assert.Equal(t, 8000, cfg.Stub.Port)
	assert.Equal(t, "127.0.0.1", cfg.Stub.Host)
	assert.True(t, cfg.Stub.Seed)
}

func TestLoadSeedFalseIsRespected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
stub:
  seed: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Stub.Seed)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://api.mailer.example.com
  timeout_seconds: 10
  expiry_policy: keep
session:
  path: /tmp/mailer-session.json
output:
  page_size: 50
stub:
  port: 9000
  seed: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.mailer.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
	assert.Equal(t, "keep", cfg.API.ExpiryPolicy)
	assert.Equal(t, "/tmp/mailer-session.json", cfg.Session.Path)
	assert.Equal(t, 50, cfg.Output.PageSize)
	assert.Equal(t, 9000, cfg.Stub.Port)
	assert.True(t, cfg.Stub.Seed)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("MAILER_API_URL", "http://stub.local:9999")
	t.Setenv("MAILER_EXPIRY_POLICY", "keep")
	t.Setenv("MAILER_SESSION_FILE", "/tmp/override.json")
	t.Setenv("PORT", "9100")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://stub.local:9999", cfg.API.BaseURL)
	assert.Equal(t, "keep", cfg.API.ExpiryPolicy)
	assert.Equal(t, "/tmp/override.json", cfg.Session.Path)
	assert.Equal(t, 9100, cfg.Stub.Port)
}

func TestLoadFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Stub.Port)
}

func TestTimeoutDuration(t *testing.T) {
	cfg := APIConfig{TimeoutSeconds: 45}
	assert.Equal(t, "45s", cfg.Timeout().String())
}
