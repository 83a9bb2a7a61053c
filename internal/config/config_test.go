package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "APP_DEBUG", "SESSION_TTL", "AMQP_URL", "AMQP_EXCHANGE", "SESSION_DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionRememberTTL)
	assert.Equal(t, "crm.notifications", cfg.AMQPExchange)
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DEBUG", "TRUE")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "30")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.SessionSweep)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestRedacted(t *testing.T) {
	cfg := &Config{
		SessionDatabaseURL: "postgres://crm:secret@db:5432/crm",
		AMQPURL:            "amqp://x",
	}
	r := cfg.Redacted()
	assert.Equal(t, "post***/crm", r["session_database_url"])
	assert.Equal(t, "***", r["amqp_url"])
	assert.NotContains(t, r["session_database_url"], "secret")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SESSION_SWEEP_INTERVAL", "0"},
		{"SESSION_TTL", "-5m"},
		{"SESSION_REMEMBER_TTL", "0s"},
		{"APP_SHUTDOWN_TIMEOUT", "-1s"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.key+" must be positive")
		})
	}
}
