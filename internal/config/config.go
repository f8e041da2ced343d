// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration. Every field has a default
// except the database DSNs, which the commands that need them validate
// themselves.
type Config struct {
	StatsURL string `env:"HL_STATS_URL" envDefault:"https://stats-data.hyperliquid.xyz/Mainnet/vaults"`
	InfoURL  string `env:"HL_INFO_URL" envDefault:"https://api.hyperliquid.xyz/info"`
	WSURL    string `env:"HL_WS_URL" envDefault:"wss://api.hyperliquid.xyz/ws"`

	PostgresDSN   string `env:"POSTGRES_DSN"`
	ClickhouseDSN string `env:"CLICKHOUSE_DSN"`

	FetchWorkers int     `env:"FETCH_WORKERS" envDefault:"2"`
	RateLimit    float64 `env:"API_RATE_LIMIT" envDefault:"4"`
	VaultLimit   int     `env:"VAULT_LIMIT" envDefault:"0"`

	Schedule     string `env:"ETL_SCHEDULE" envDefault:"@hourly"`
	MetricsAddr  string `env:"METRICS_ADDR" envDefault:":9090"`
	StreamEnable bool   `env:"STREAM_ENABLE" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.FetchWorkers <= 0 {
		return Config{}, fmt.Errorf("FETCH_WORKERS must be positive, got %d", cfg.FetchWorkers)
	}
	if cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("API_RATE_LIMIT must be positive, got %v", cfg.RateLimit)
	}
	return cfg, nil
}
