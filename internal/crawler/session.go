package crawler

import "sync"

// crawlSession is the transient state of one run, owned exclusively by the
// Scraper for the run's lifetime and discarded afterwards. The record
// accumulator is the single collection point for the concurrent detail phase;
// all appends serialize through its mutex.
type crawlSession struct {
	page       int
	frontPages int
	urls       []string

	mu      sync.Mutex
	records []ListingRecord
	dropped int
}

func newCrawlSession() *crawlSession {
	return &crawlSession{page: 1}
}

// addURLs appends links in document order until the entry limit is reached
// and reports whether the cap was hit. Links beyond the cap are discarded.
func (s *crawlSession) addURLs(links []string, limit int) (full bool) {
	for _, link := range links {
		if len(s.urls) == limit {
			return true
		}
		s.urls = append(s.urls, link)
	}
	return len(s.urls) == limit
}

func (s *crawlSession) appendRecord(rec ListingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *crawlSession) dropRecord() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped++
}
