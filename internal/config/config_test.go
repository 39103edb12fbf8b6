package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pigiame-crawler/internal/crawler"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "https://www.pigiame.co.ke/cars", cfg.Scraper.BaseURL)
	require.Equal(t, 2, cfg.Scraper.Concurrency)
	require.Equal(t, 20, cfg.Scraper.EntryLimit)
	require.Equal(t, 5, cfg.Scraper.BatchSize)
	require.Equal(t, "listings", cfg.DB.Table)
	require.False(t, cfg.Server.Enabled)
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scraper:
  base_url: https://www.pigiame.co.ke/cars?sort=newest
  entry_limit: 40
  batch_size: 10
  concurrency: 3
server:
  enabled: true
  port: 9090
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://www.pigiame.co.ke/cars?sort=newest", cfg.Scraper.BaseURL)
	require.Equal(t, 40, cfg.Scraper.EntryLimit)
	require.Equal(t, 10, cfg.Scraper.BatchSize)
	require.Equal(t, 3, cfg.Scraper.Concurrency)
	require.True(t, cfg.Server.Enabled)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadRejectsBatchSizeAboveEntryLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scraper:
  entry_limit: 5
  batch_size: 10
`), 0o600))

	_, err := Load(path)
	require.ErrorIs(t, err, crawler.ErrBatchSizeExceedsEntryLimit)
}

func TestCrawlerConfigConvertsDurations(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cc := cfg.CrawlerConfig()
	require.Equal(t, 500*time.Millisecond, cc.BaseDelay)
	require.Equal(t, 50*time.Millisecond, cc.JitterMin)
	require.Equal(t, 150*time.Millisecond, cc.JitterMax)
	require.Equal(t, 5*time.Second, cc.RequestTimeout)
}
