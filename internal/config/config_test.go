package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlor-chat/parlor/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "AGENT_ROSTER",
		"RATE_LIMIT_PER_MINUTE", "QUEUE_CAPACITY", "GEN_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 1024, cfg.QueueCapacity)
	assert.Equal(t, 30*time.Second, cfg.GenTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.APIKeyConfigured())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("QUEUE_CAPACITY", "32")
	t.Setenv("GEN_TIMEOUT", "5s")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("AGENT_ROSTER", "/etc/parlor/roster.yaml")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
	assert.Equal(t, 32, cfg.QueueCapacity)
	assert.Equal(t, 5*time.Second, cfg.GenTimeout)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/etc/parlor/roster.yaml", cfg.RosterPath)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("GEN_TIMEOUT", "soon")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 30*time.Second, cfg.GenTimeout)
}
