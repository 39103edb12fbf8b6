package crawler

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a URL and returns the parsed document. Implementations
// bound their own concurrency and apply the per-request timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Extractor turns parsed pages into listing links (front pages) or a
// normalized record (detail pages).
type Extractor interface {
	ListingLinks(doc *goquery.Document) []string
	DetailRecord(doc *goquery.Document, now time.Time) (ListingRecord, error)
}

// Sink accepts batches of normalized records for durable storage.
type Sink interface {
	WriteBatch(ctx context.Context, records []ListingRecord) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
