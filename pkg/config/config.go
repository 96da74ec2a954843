// Package config loads and validates service configuration from the
// environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all tunables for the coach service. Credentials and
// secrets are required; everything else carries a sensible default.
type Config struct {
	// Hevy platform
	HevyAPIKey  string        `env:"HEVY_API_KEY, required"`
	HevyBaseURL string        `env:"BASE_URL, default=https://api.hevyapp.com"`
	HevyTimeout time.Duration `env:"HEVY_TIMEOUT, default=30s"`

	// Webhook receiver
	WebhookToken string `env:"WEBHOOK_TOKEN, required"`
	Port         int    `env:"PORT, default=8080"`

	// Generation backend
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL, default=gemini-2.5-pro"`
	UseMockGemini bool          `env:"USE_MOCK_GEMINI, default=false"`
	GenTimeout    time.Duration `env:"GENERATION_TIMEOUT, default=60s"`

	// Poll scheduler
	PollInterval time.Duration `env:"POLL_INTERVAL, default=15m"`
	PollLookback time.Duration `env:"POLL_LOOKBACK, default=24h"`

	// Dedup tracker
	SuccessRetention time.Duration `env:"TRACKER_RETENTION, default=24h"`
	FailureRetention time.Duration `env:"TRACKER_FAILURE_RETENTION, default=1h"`
	ClaimTimeout     time.Duration `env:"TRACKER_CLAIM_TIMEOUT, default=10m"`

	// Observability
	LogLevel    string `env:"LOG_LEVEL, default=info"`
	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"ENVIRONMENT, default=development"`

	// Process shutdown
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=20s"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks constraints envconfig tags cannot express. The service
// must not start accepting events with an unusable configuration.
func (c *Config) Validate() error {
	if !c.UseMockGemini && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required unless USE_MOCK_GEMINI is set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.SuccessRetention < c.FailureRetention {
		return fmt.Errorf("TRACKER_RETENTION (%s) must not be shorter than TRACKER_FAILURE_RETENTION (%s)",
			c.SuccessRetention, c.FailureRetention)
	}
	return nil
}
