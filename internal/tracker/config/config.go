package config

import (
	"time"

	"stock-tracker/pkg/config"
)

// Updater holds price update and backfill configuration.
type Updater struct {
	UpdateIntervalMinutes int           `mapstructure:"update_interval_minutes"`
	RunOnStartup          bool          `mapstructure:"run_on_startup"`
	SeedOnStartup         bool          `mapstructure:"seed_on_startup"`
	SummaryCacheTTL       time.Duration `mapstructure:"summary_cache_ttl"`
}

// Finnhub holds the configuration for the Finnhub market data API.
type Finnhub struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CandleCacheTTL      time.Duration `mapstructure:"candle_cache_ttl"`
	Currency            string        `mapstructure:"currency"`
}

// Telegram holds configuration for the run report notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the tracker service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Updater  Updater         `mapstructure:"updater"`
	Finnhub  Finnhub         `mapstructure:"finnhub"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the tracker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills the settings the service can run without.
func (c *Config) applyDefaults() {
	if c.Updater.UpdateIntervalMinutes <= 0 {
		c.Updater.UpdateIntervalMinutes = 60
	}
	if c.Updater.SummaryCacheTTL <= 0 {
		c.Updater.SummaryCacheTTL = time.Minute
	}
	if c.Database.Driver == "" && c.Database.URL == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/app.db"
	}
	if c.API.Port == 0 {
		c.API.Port = 8000
	}
	if c.Finnhub.BaseURL == "" {
		c.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Finnhub.MaxRequestPerMinute <= 0 {
		c.Finnhub.MaxRequestPerMinute = 55
	}
	if c.Finnhub.CandleCacheTTL <= 0 {
		c.Finnhub.CandleCacheTTL = 30 * time.Minute
	}
	if c.Finnhub.Currency == "" {
		c.Finnhub.Currency = "USD"
	}
}
