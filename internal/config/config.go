// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pigiame-crawler/internal/crawler"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Scraper ScraperConfig `mapstructure:"scraper"`
	DB      DBConfig      `mapstructure:"db"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScraperConfig governs the crawl pipeline.
type ScraperConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	UserAgent        string `mapstructure:"user_agent"`
	BaseDelayMs      int    `mapstructure:"base_delay_ms"`
	JitterMinMs      int    `mapstructure:"jitter_min_ms"`
	JitterMaxMs      int    `mapstructure:"jitter_max_ms"`
	Concurrency      int    `mapstructure:"concurrency"`
	RequestTimeoutMs int    `mapstructure:"request_timeout_ms"`
	EntryLimit       int    `mapstructure:"entry_limit"`
	BatchSize        int    `mapstructure:"batch_size"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// ServerConfig controls the diagnostics HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. An empty path skips the config
// file and relies on defaults plus SCRAPER_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults mirror the knobs the site has tolerated well.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.base_url", "https://www.pigiame.co.ke/cars")
	v.SetDefault("scraper.user_agent", "pigiame-crawler/1.0")
	v.SetDefault("scraper.base_delay_ms", 500)
	v.SetDefault("scraper.jitter_min_ms", 50)
	v.SetDefault("scraper.jitter_max_ms", 150)
	v.SetDefault("scraper.concurrency", 2)
	v.SetDefault("scraper.request_timeout_ms", 5000)
	v.SetDefault("scraper.entry_limit", 20)
	v.SetDefault("scraper.batch_size", 5)
	v.SetDefault("db.table", "listings")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. The crawl-level
// invariants live on crawler.Config and are checked again by the scraper.
func (c Config) Validate() error {
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	return c.CrawlerConfig().Validate()
}

// CrawlerConfig converts the loaded knobs into the scraper's own config type.
func (c Config) CrawlerConfig() crawler.Config {
	return crawler.Config{
		BaseURL:        c.Scraper.BaseURL,
		UserAgent:      c.Scraper.UserAgent,
		BaseDelay:      time.Duration(c.Scraper.BaseDelayMs) * time.Millisecond,
		JitterMin:      time.Duration(c.Scraper.JitterMinMs) * time.Millisecond,
		JitterMax:      time.Duration(c.Scraper.JitterMaxMs) * time.Millisecond,
		Concurrency:    c.Scraper.Concurrency,
		RequestTimeout: time.Duration(c.Scraper.RequestTimeoutMs) * time.Millisecond,
		EntryLimit:     c.Scraper.EntryLimit,
		BatchSize:      c.Scraper.BatchSize,
	}
}
