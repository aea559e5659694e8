package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "humanloop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Minute, cfg.Endpoint.ResumeTimeout)
	assert.Equal(t, 15*time.Second, cfg.Endpoint.PingInterval)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/humanloop.yaml")
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
endpoint:
  url: ws://runs.example.com/resume
  assistant_id: asst_42
  resume_timeout: 90s
redis:
  addr: redis.internal:6380
  ttl: 1h
history:
  enabled: false
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://runs.example.com/resume", cfg.Endpoint.URL)
	assert.Equal(t, "asst_42", cfg.Endpoint.AssistantID)
	assert.Equal(t, 90*time.Second, cfg.Endpoint.ResumeTimeout)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Endpoint.PingInterval)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "endpoint: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
endpoint:
  url: ws://from-file/resume
  assistant_id: asst_file
`)
	t.Setenv("HUMANLOOP_ENDPOINT_URL", "ws://from-env/resume")
	t.Setenv("HUMANLOOP_ASSISTANT_ID", "asst_env")
	t.Setenv("HUMANLOOP_REDIS_DB", "3")
	t.Setenv("HUMANLOOP_RESUME_TIMEOUT", "45s")
	t.Setenv("HUMANLOOP_HISTORY_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://from-env/resume", cfg.Endpoint.URL)
	assert.Equal(t, "asst_env", cfg.Endpoint.AssistantID)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 45*time.Second, cfg.Endpoint.ResumeTimeout)
	assert.False(t, cfg.History.Enabled)
}

func TestEnvOverrideIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HUMANLOOP_REDIS_DB", "not-a-number")
	t.Setenv("HUMANLOOP_RESUME_TIMEOUT", "eventually")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Endpoint.ResumeTimeout)
}

func TestValidate(t *testing.T) {
	t.Run("non-positive resume timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Endpoint.ResumeTimeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("history enabled without path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.History.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("history disabled without path is fine", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.History.Enabled = false
		cfg.History.Path = ""
		assert.NoError(t, cfg.Validate())
	})
}
