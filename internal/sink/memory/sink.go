// Package memory provides an in-memory Sink used by tests and dry runs.
package memory

import (
	"context"
	"sync"

	"pigiame-crawler/internal/crawler"
)

// Sink records every batch it receives.
type Sink struct {
	mu      sync.Mutex
	batches [][]crawler.ListingRecord
}

// New creates an empty Sink.
func New() *Sink {
	return &Sink{}
}

// WriteBatch stores a copy of the batch.
func (s *Sink) WriteBatch(_ context.Context, records []crawler.ListingRecord) error {
	batch := append([]crawler.ListingRecord(nil), records...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return nil
}

// Batches returns the batches in write order.
func (s *Sink) Batches() [][]crawler.ListingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]crawler.ListingRecord(nil), s.batches...)
}

// Records returns every stored record in write order.
func (s *Sink) Records() []crawler.ListingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []crawler.ListingRecord
	for _, b := range s.batches {
		all = append(all, b...)
	}
	return all
}
