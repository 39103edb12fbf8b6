// Package crawler implements the scrape orchestration for the Pigiame cars
// section: sequential front-page pagination, bounded concurrent detail-page
// fetching, and batched writes to the sink.
package crawler

import "time"

// ListingRecord is one normalized vehicle listing. Optional fields are
// pointers: a field missing from the page, or one that failed best-effort
// parsing, stays nil instead of masquerading as a zero value.
type ListingRecord struct {
	AdID           int64
	Location       string
	Region         string
	Currency       string
	Price          *float64
	AdDateInserted *time.Time
	Condition      *string
	Make           *string
	Model          *string
	Transmission   *string
	DriveType      *string
	Mileage        *int64
	MileageUnit    *string
	BuildYear      *int16
	CarFeatures    *string
	CreatedAt      time.Time
}

// RunSummary reports what one scrape run accomplished.
type RunSummary struct {
	RunID            string
	FrontPages       int
	LinksDiscovered  int
	RecordsExtracted int
	RecordsDropped   int
	BatchesWritten   int
	RecordsWritten   int
	Duration         time.Duration
}
