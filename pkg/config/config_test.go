package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func minimalEnv() map[string]string {
	return map[string]string{
		"HEVY_API_KEY":   "hevy-key",
		"WEBHOOK_TOKEN":  "hook-token",
		"GEMINI_API_KEY": "gemini-key",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, minimalEnv())
	require.NoError(t, err)

	assert.Equal(t, "https://api.hevyapp.com", cfg.HevyBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HevyTimeout)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.False(t, cfg.UseMockGemini)
	assert.Equal(t, 15*time.Minute, cfg.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.PollLookback)
	assert.Equal(t, 24*time.Hour, cfg.SuccessRetention)
	assert.Equal(t, time.Hour, cfg.FailureRetention)
	assert.Equal(t, 10*time.Minute, cfg.ClaimTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	env := minimalEnv()
	env["BASE_URL"] = "http://localhost:9999"
	env["POLL_INTERVAL"] = "5m"
	env["PORT"] = "3000"
	env["LOG_LEVEL"] = "debug"

	cfg, err := loadFrom(t, env)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.HevyBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	for _, key := range []string{"HEVY_API_KEY", "WEBHOOK_TOKEN"} {
		t.Run(key, func(t *testing.T) {
			env := minimalEnv()
			delete(env, key)

			_, err := loadFrom(t, env)
			require.Error(t, err)
		})
	}
}

func TestValidate_GeminiKeyRequiredUnlessMocked(t *testing.T) {
	env := minimalEnv()
	delete(env, "GEMINI_API_KEY")

	_, err := loadFrom(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	env["USE_MOCK_GEMINI"] = "true"
	cfg, err := loadFrom(t, env)
	require.NoError(t, err)
	assert.True(t, cfg.UseMockGemini)
}

func TestValidate_PollIntervalMustBePositive(t *testing.T) {
	env := minimalEnv()
	env["POLL_INTERVAL"] = "0s"

	_, err := loadFrom(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestValidate_RetentionOrdering(t *testing.T) {
	env := minimalEnv()
	env["TRACKER_RETENTION"] = "30m"
	env["TRACKER_FAILURE_RETENTION"] = "1h"

	_, err := loadFrom(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRACKER_RETENTION")
}
