// Package fetcher implements the bounded fetch stage on top of Colly.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"pigiame-crawler/internal/crawler"
)

// Config controls fetch behavior.
type Config struct {
	UserAgent      string
	Concurrency    int
	RequestTimeout time.Duration
}

// Fetcher performs HTTP GETs with at most Concurrency requests in flight;
// callers beyond the cap queue at the semaphore until a slot frees. Each
// admitted request races the per-request timeout.
type Fetcher struct {
	cfg       Config
	semaphore chan struct{}
	base      *colly.Collector
}

// New builds a Fetcher around a shared pooled transport.
func New(cfg Config) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())

	return &Fetcher{
		cfg:       cfg,
		semaphore: make(chan struct{}, cfg.Concurrency),
		base:      c,
	}
}

// Fetch executes a single GET and parses the response body. Failures are
// reported as *crawler.FetchError with the timeout/transport distinction the
// controller relies on.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	select {
	case f.semaphore <- struct{}{}:
		defer func() { <-f.semaphore }()
	case <-ctx.Done():
		return nil, &crawler.FetchError{Kind: classify(ctx.Err()), URL: url, Err: ctx.Err()}
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	body, err := f.get(reqCtx, url)
	if err != nil {
		return nil, &crawler.FetchError{Kind: classify(err), URL: url, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &crawler.FetchError{Kind: crawler.FetchTransport, URL: url, Err: err}
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	collector := f.base.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.RequestTimeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		// The collector's own request timeout reaps the in-flight request.
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
		if fetchErr != nil {
			return nil, fetchErr
		}
		return body, nil
	}
}

func classify(err error) crawler.FetchErrorKind {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return crawler.FetchTimeout
	}
	return crawler.FetchTransport
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
