// Package metrics exposes Prometheus collectors for the scraper.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	frontpagesTotal       prometheus.Counter
	linksDiscoveredTotal  prometheus.Counter
	recordsExtractedTotal prometheus.Counter
	recordsDroppedTotal   prometheus.Counter
	batchesWrittenTotal   prometheus.Counter
	recordsWrittenTotal   prometheus.Counter

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		frontpagesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "scraper_frontpages_total",
			Help: "Total number of front pages parsed.",
		})
		linksDiscoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "scraper_links_discovered_total",
			Help: "Total number of detail-page links collected.",
		})
		recordsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "scraper_records_extracted_total",
			Help: "Total number of listing records extracted from detail pages.",
		})
		recordsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "scraper_records_dropped_total",
			Help: "Total number of detail pages dropped due to fetch or parse failures.",
		})
		batchesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "scraper_batches_written_total",
			Help: "Total number of batches handed to the sink.",
		})
		recordsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "scraper_records_written_total",
			Help: "Total number of records handed to the sink.",
		})
	})
}

// FrontpageParsed counts one successfully parsed front page.
func FrontpageParsed() {
	if frontpagesTotal != nil {
		frontpagesTotal.Inc()
	}
}

// LinksDiscovered counts detail-page links collected during pagination.
func LinksDiscovered(n int) {
	if linksDiscoveredTotal != nil {
		linksDiscoveredTotal.Add(float64(n))
	}
}

// RecordExtracted counts one normalized listing record.
func RecordExtracted() {
	if recordsExtractedTotal != nil {
		recordsExtractedTotal.Inc()
	}
}

// RecordDropped counts one detail page dropped on fetch or parse failure.
func RecordDropped() {
	if recordsDroppedTotal != nil {
		recordsDroppedTotal.Inc()
	}
}

// BatchWritten counts one sink write of n records.
func BatchWritten(n int) {
	if batchesWrittenTotal != nil {
		batchesWrittenTotal.Inc()
		recordsWrittenTotal.Add(float64(n))
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
