package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	AnthropicAPIKey string
	OpenAIAPIKey    string

	RosterPath string // agent roster YAML; empty uses the built-in roster

	RateLimitPerMinute int
	QueueCapacity      int
	GenTimeout         time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables, loading .env first
// when present. It returns an error instead of starting with a broken
// setup: at least one provider API key is required.
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3001"),
		Env:                getEnv("ENV", "development"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		RosterPath:         os.Getenv("AGENT_ROSTER"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		QueueCapacity:      getEnvInt("QUEUE_CAPACITY", 1024),
		GenTimeout:         getEnvDuration("GEN_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.AnthropicAPIKey == "" && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("config: at least one of ANTHROPIC_API_KEY or OPENAI_API_KEY must be set")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// APIKeyConfigured reports whether any provider key is present. Exposed
// on the health endpoint.
func (c *Config) APIKeyConfigured() bool {
	return c.AnthropicAPIKey != "" || c.OpenAIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
