package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("BIRDEYE_API_KEY", "birdeye")
	t.Setenv("SHYFT_API_KEY", "shyft")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Upstream.HTTPTimeout)
	assert.Equal(t, 10*time.Second, cfg.Upstream.EnrichTimeout)
	assert.Equal(t, 25*time.Second, cfg.Upstream.ReportTimeout)
	assert.Greater(t, cfg.API.WriteTimeout, cfg.Upstream.ReportTimeout)
	assert.Equal(t, 0, cfg.Solana.MaxRetries)
	assert.Equal(t, "https://public-api.birdeye.so", cfg.Upstream.BirdeyeURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Storage.PostgresDSN)
	assert.False(t, cfg.WebhookMode())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "TELEGRAM_TOKEN=from-file\nHTTP_TIMEOUT=3s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set.
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	// Registers restoration of HTTP_TIMEOUT after godotenv sets it.
	t.Setenv("HTTP_TIMEOUT", "")
	os.Unsetenv("HTTP_TIMEOUT")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, 3*time.Second, cfg.Upstream.HTTPTimeout)
}

func TestValidate_MissingKeys(t *testing.T) {
	cfg := &Config{}
	cfg.Upstream.HTTPTimeout = time.Second
	cfg.Upstream.EnrichTimeout = time.Second
	cfg.Upstream.ReportTimeout = time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
	assert.Contains(t, err.Error(), "BIRDEYE_API_KEY")
	assert.Contains(t, err.Error(), "SHYFT_API_KEY")
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "t"},
		Upstream: UpstreamConfig{BirdeyeAPIKey: "b", ShyftAPIKey: "s"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestValidate_WriteTimeoutBelowReportTimeout(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "t"},
		Upstream: UpstreamConfig{
			BirdeyeAPIKey: "b",
			ShyftAPIKey:   "s",
			HTTPTimeout:   10 * time.Second,
			EnrichTimeout: 10 * time.Second,
			ReportTimeout: 25 * time.Second,
		},
		API: APIConfig{WriteTimeout: 20 * time.Second},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_WRITE_TIMEOUT")

	cfg.API.WriteTimeout = 45 * time.Second
	assert.NoError(t, cfg.Validate())
}

func TestWebhookMode(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{WebhookURL: "https://bot.example.com/telegram/webhook"}}
	assert.True(t, cfg.WebhookMode())
}
