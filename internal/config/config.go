// Package config loads service configuration from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the server and worker.
type Config struct {
	// Server configuration
	Port            string
	Debug           bool
	ShutdownTimeout time.Duration

	// Mock dataset; empty means the embedded seed
	SeedFile string

	// Sessions
	SessionDatabaseURL string
	SessionTTL         time.Duration
	SessionRememberTTL time.Duration
	SessionSweep       time.Duration

	// Notification bus; empty AMQPURL keeps it in memory
	AMQPURL      string
	AMQPExchange string

	// EnvFileLoaded reports whether a .env file was found
	EnvFileLoaded bool
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the OS environment still applies
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		Port:               getEnv("APP_PORT", "8080"),
		Debug:              getEnvBool("APP_DEBUG", false),
		ShutdownTimeout:    getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		SeedFile:           getEnv("APP_SEED_FILE", ""),
		SessionDatabaseURL: getEnv("SESSION_DATABASE_URL", ""),
		SessionTTL:         getEnvDuration("SESSION_TTL", 12*time.Hour),
		SessionRememberTTL: getEnvDuration("SESSION_REMEMBER_TTL", 30*24*time.Hour),
		SessionSweep:       getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "crm.notifications"),
		EnvFileLoaded:      envLoaded,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects durations the server cannot run with.
func (c *Config) validate() error {
	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"APP_SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
		{"SESSION_TTL", c.SessionTTL},
		{"SESSION_REMEMBER_TTL", c.SessionRememberTTL},
		{"SESSION_SWEEP_INTERVAL", c.SessionSweep},
	} {
		if d.value <= 0 {
			return errors.Newf("%s must be positive, got %s", d.key, d.value)
		}
	}
	return nil
}

// Redacted returns the config as a map safe to log.
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"port":                 c.Port,
		"debug":                c.Debug,
		"shutdown_timeout":     c.ShutdownTimeout.String(),
		"seed_file":            c.SeedFile,
		"session_database_url": redact(c.SessionDatabaseURL),
		"session_ttl":          c.SessionTTL.String(),
		"session_remember_ttl": c.SessionRememberTTL.String(),
		"amqp_url":             redact(c.AMQPURL),
		"amqp_exchange":        c.AMQPExchange,
	}
}

// NewLogger builds the production zap logger, at debug level when requested.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
