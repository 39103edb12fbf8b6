package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pigiame-crawler/internal/metrics"
)

// Scraper drives one run: paginate the front pages sequentially, fetch the
// discovered detail pages concurrently, then flush the accumulated records to
// the sink in fixed-size batches. The phases are strictly linear; only the
// detail phase runs concurrent work.
type Scraper struct {
	cfg       Config
	fetcher   Fetcher
	extractor Extractor
	sink      Sink
	clock     Clock
	logger    *zap.Logger
	rng       *rand.Rand
}

// NewScraper constructs a Scraper. A nil logger is replaced with a no-op one.
func NewScraper(cfg Config, fetcher Fetcher, extractor Extractor, sink Sink, clock Clock, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		sink:      sink,
		clock:     clock,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes the scrape. Configuration is validated before any network
// call. Fetch failures never fail the run: a front-page failure truncates
// pagination and a detail-page failure drops that single record. A sink write
// failure is fatal and surfaces as a StorageError alongside the summary of
// what was written so far.
func (s *Scraper) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{RunID: uuid.NewString()}

	if err := s.cfg.Validate(); err != nil {
		return summary, fmt.Errorf("validate config: %w", err)
	}

	start := s.clock.Now()
	session := newCrawlSession()
	logger := s.logger.With(zap.String("run_id", summary.RunID))

	s.paginate(ctx, session, logger)
	s.fetchDetails(ctx, session, logger)

	written, batches, err := s.flush(ctx, session.records, logger)

	summary.FrontPages = session.frontPages
	summary.LinksDiscovered = len(session.urls)
	summary.RecordsExtracted = len(session.records)
	summary.RecordsDropped = session.dropped
	summary.RecordsWritten = written
	summary.BatchesWritten = batches
	summary.Duration = s.clock.Now().Sub(start)

	if err != nil {
		return summary, err
	}

	logger.Info("scrape finished",
		zap.Int("front_pages", summary.FrontPages),
		zap.Int("links", summary.LinksDiscovered),
		zap.Int("records_written", summary.RecordsWritten),
		zap.Int("records_dropped", summary.RecordsDropped),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// paginate fetches front pages one at a time until a page yields no links,
// the entry limit is reached, a fetch fails, or the context is cancelled.
func (s *Scraper) paginate(ctx context.Context, session *crawlSession, logger *zap.Logger) {
	for {
		url := s.frontPageURL(session.page)

		doc, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			// Front-page failures only truncate pagination.
			logger.Warn("frontpage fetch failed", zap.String("url", url), zap.Error(err))
			return
		}

		links := s.extractor.ListingLinks(doc)
		if len(links) == 0 {
			return
		}

		session.frontPages++
		metrics.FrontpageParsed()
		full := session.addURLs(links, s.cfg.EntryLimit)
		logger.Info("frontpage parsed",
			zap.Int("page_number", session.page),
			zap.Int("links_collected", len(session.urls)),
		)
		if full {
			return
		}

		session.page++
		if !s.sleepJittered(ctx) {
			return
		}
	}
}

// fetchDetails submits every discovered URL; the fetcher bounds how many are
// in flight. Each success appends one record through the session's collector;
// each failure drops exactly one record and never disturbs its siblings.
// Wait is the barrier into the flush phase.
func (s *Scraper) fetchDetails(ctx context.Context, session *crawlSession, logger *zap.Logger) {
	metrics.LinksDiscovered(len(session.urls))

	var g errgroup.Group
	for _, url := range session.urls {
		g.Go(func() error {
			doc, err := s.fetcher.Fetch(ctx, url)
			if err != nil {
				session.dropRecord()
				metrics.RecordDropped()
				logger.Warn("detail page dropped", zap.String("url", url), zap.Error(err))
				return nil
			}

			rec, err := s.extractor.DetailRecord(doc, s.clock.Now())
			if err != nil {
				session.dropRecord()
				metrics.RecordDropped()
				logger.Warn("detail page unparseable", zap.String("url", url), zap.Error(err))
				return nil
			}

			session.appendRecord(rec)
			metrics.RecordExtracted()
			logger.Debug("detail page parsed", zap.String("url", url), zap.Int64("ad_id", rec.AdID))
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// flush writes consecutive BatchSize groups in accumulation order, then one
// trailing partial batch if a remainder exists.
func (s *Scraper) flush(ctx context.Context, records []ListingRecord, logger *zap.Logger) (written, batches int, err error) {
	for start := 0; start < len(records); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(records))
		batch := records[start:end]

		if err := s.sink.WriteBatch(ctx, batch); err != nil {
			return written, batches, &StorageError{Batch: batches + 1, Err: err}
		}

		written += len(batch)
		batches++
		metrics.BatchWritten(len(batch))
		logger.Info("batch written", zap.Int("batch", batches), zap.Int("records", len(batch)))
	}
	return written, batches, nil
}

func (s *Scraper) frontPageURL(page int) string {
	if page <= 1 {
		return s.cfg.BaseURL
	}
	sep := "?"
	if strings.Contains(s.cfg.BaseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sp=%d", s.cfg.BaseURL, sep, page)
}

// sleepJittered pauses for the base delay plus a uniform random jitter,
// returning false when the context finished first.
func (s *Scraper) sleepJittered(ctx context.Context) bool {
	delay := s.cfg.BaseDelay + s.cfg.JitterMin
	if span := s.cfg.JitterMax - s.cfg.JitterMin; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span) + 1))
	}
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
