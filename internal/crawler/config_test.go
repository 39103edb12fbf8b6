package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		BaseURL:        "https://www.pigiame.co.ke/cars",
		UserAgent:      "pigiame-crawler/1.0",
		BaseDelay:      500 * time.Millisecond,
		JitterMin:      50 * time.Millisecond,
		JitterMax:      150 * time.Millisecond,
		Concurrency:    2,
		RequestTimeout: 5 * time.Second,
		EntryLimit:     20,
		BatchSize:      5,
	}
}

func TestConfigValidateAccepts(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())
}

func TestConfigValidateBatchSizeBound(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.BatchSize = 21
	require.ErrorIs(t, cfg.Validate(), ErrBatchSizeExceedsEntryLimit)

	cfg.BatchSize = cfg.EntryLimit
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero entry limit", func(c *Config) { c.EntryLimit = 0 }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"negative jitter", func(c *Config) { c.JitterMin = -time.Millisecond }},
		{"inverted jitter bounds", func(c *Config) { c.JitterMin = time.Second; c.JitterMax = time.Millisecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
