package crawler

import (
	"errors"
	"fmt"
	"time"
)

// ErrBatchSizeExceedsEntryLimit is returned when the sink batch size is
// larger than the number of entries a run may ever collect.
var ErrBatchSizeExceedsEntryLimit = errors.New("batch size exceeds entry limit")

// Config holds the settings for one scrape run. It is decoupled from Viper so
// the scraper can be constructed and tested independently.
type Config struct {
	// BaseURL is the first front page; later pages append a p=N query param.
	BaseURL   string
	UserAgent string

	// BaseDelay plus a uniform random duration in [JitterMin, JitterMax] is
	// slept between front-page requests.
	BaseDelay time.Duration
	JitterMin time.Duration
	JitterMax time.Duration

	// Concurrency caps in-flight detail-page requests.
	Concurrency    int
	RequestTimeout time.Duration

	// EntryLimit caps how many detail-page URLs a run collects.
	EntryLimit int
	// BatchSize is the number of records per sink write.
	BatchSize int
}

// Validate is called before any network activity; an invalid configuration
// fails the run up front.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	if c.EntryLimit <= 0 {
		return fmt.Errorf("entry limit must be > 0")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0")
	}
	if c.BatchSize > c.EntryLimit {
		return ErrBatchSizeExceedsEntryLimit
	}
	if c.JitterMin < 0 || c.JitterMax < c.JitterMin {
		return fmt.Errorf("jitter bounds must satisfy 0 <= min <= max")
	}
	return nil
}
