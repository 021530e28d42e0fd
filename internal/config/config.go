// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the scanner.
type Config struct {
	Telegram TelegramConfig
	Upstream UpstreamConfig
	Solana   SolanaConfig
	Storage  StorageConfig
	Redis    RedisConfig
	API      APIConfig
	Log      LogConfig
}

// TelegramConfig holds bot settings.
type TelegramConfig struct {
	Token         string        `envconfig:"TELEGRAM_TOKEN"`
	APIURL        string        `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	WebhookURL    string        `envconfig:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret string        `envconfig:"TELEGRAM_WEBHOOK_SECRET"`
	PollTimeout   time.Duration `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"30s"`
}

// UpstreamConfig holds market data and indexing service settings.
type UpstreamConfig struct {
	BirdeyeAPIKey   string        `envconfig:"BIRDEYE_API_KEY"`
	BirdeyeURL      string        `envconfig:"BIRDEYE_URL" default:"https://public-api.birdeye.so"`
	DexScreenerURL  string        `envconfig:"DEXSCREENER_URL" default:"https://api.dexscreener.com"`
	ShyftAPIKey     string        `envconfig:"SHYFT_API_KEY"`
	ShyftGraphQLURL string        `envconfig:"SHYFT_GRAPHQL_URL" default:"https://programs.shyft.to/v0/graphql/"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	EnrichTimeout   time.Duration `envconfig:"ENRICH_TIMEOUT" default:"10s"`
	ReportTimeout   time.Duration `envconfig:"REPORT_TIMEOUT" default:"25s"`
	CacheTTL        time.Duration `envconfig:"UPSTREAM_CACHE_TTL" default:"30s"`
}

// SolanaConfig holds RPC settings.
type SolanaConfig struct {
	RPCEndpoint string        `envconfig:"SOLANA_RPC_ENDPOINT" default:"https://api.mainnet-beta.solana.com"`
	MaxRetries  int           `envconfig:"SOLANA_RPC_MAX_RETRIES" default:"0"`
	RetryDelay  time.Duration `envconfig:"SOLANA_RPC_RETRY_DELAY" default:"500ms"`
}

// StorageConfig holds database settings. Empty DSNs select in-memory stores.
type StorageConfig struct {
	PostgresDSN   string        `envconfig:"POSTGRES_DSN"`
	ClickHouseDSN string        `envconfig:"CLICKHOUSE_DSN"`
	PoolTTL       time.Duration `envconfig:"POOL_CACHE_TTL" default:"10m"`
}

// RedisConfig holds Redis settings. An empty address disables the response cache.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Addr            string        `envconfig:"API_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"45s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}

// Validate reports every missing required setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Upstream.BirdeyeAPIKey == "" {
		errs = append(errs, errors.New("BIRDEYE_API_KEY is required"))
	}
	if c.Upstream.ShyftAPIKey == "" {
		errs = append(errs, errors.New("SHYFT_API_KEY is required"))
	}
	if c.Upstream.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	if c.Upstream.EnrichTimeout <= 0 {
		errs = append(errs, errors.New("ENRICH_TIMEOUT must be positive"))
	}
	if c.Upstream.ReportTimeout <= 0 {
		errs = append(errs, errors.New("REPORT_TIMEOUT must be positive"))
	} else if c.API.WriteTimeout > 0 && c.API.WriteTimeout <= c.Upstream.ReportTimeout {
		errs = append(errs, errors.New("API_WRITE_TIMEOUT must exceed REPORT_TIMEOUT"))
	}
	return errors.Join(errs...)
}

// WebhookMode reports whether updates arrive by webhook instead of long polling.
func (c *Config) WebhookMode() bool {
	return c.Telegram.WebhookURL != ""
}
