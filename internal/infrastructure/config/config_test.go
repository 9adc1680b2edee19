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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 72, cfg.Reconciler.NotifyWindowHours)
	assert.Equal(t, 24, cfg.Reconciler.NotifyDedupHours)
	assert.Equal(t, 15, cfg.Reconciler.CallTimeoutSeconds)
	assert.Equal(t, 2, cfg.Provisioning.MaxRetries)
	assert.Empty(t, cfg.Cron.Schedule)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "cron:\n  secret: from-file\n")

	t.Run("bare CRON_SECRET", func(t *testing.T) {
		t.Setenv("CRON_SECRET", "from-env")

		cfg, err := Load("", path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Cron.Secret)
	})

	t.Run("prefixed key", func(t *testing.T) {
		t.Setenv("PROXYSHOP_RECONCILER_NOTIFY_WINDOW_HOURS", "48")

		cfg, err := Load("", path)
		require.NoError(t, err)
		assert.Equal(t, 48, cfg.Reconciler.NotifyWindowHours)
		assert.Equal(t, "from-file", cfg.Cron.Secret)
	})
}

func TestLoad_EnvOverridesMode(t *testing.T) {
	path := writeConfig(t, "server:\n  mode: debug\n")

	cfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)

	cfg, err = Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.Mode)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
email:
  enabled: true
  from_address: not-an-email
provisioning:
  max_retries: 50
`)

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email.from_address must be a valid email address")
	assert.Contains(t, err.Error(), "provisioning.max_retries must be at most 10")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
