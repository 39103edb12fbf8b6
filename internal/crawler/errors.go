package crawler

import "fmt"

// FetchErrorKind classifies why a page fetch failed.
type FetchErrorKind int

const (
	// FetchTimeout means the request exceeded the per-request timeout and was
	// cancelled.
	FetchTimeout FetchErrorKind = iota
	// FetchTransport covers every other transport or HTTP-level failure.
	FetchTransport
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// FetchError reports a failed page fetch. Front-page fetch errors truncate
// pagination; detail-page fetch errors drop that single record.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError reports a failed batch write. Earlier batches are already
// durable; the rest of the run's records are lost.
type StorageError struct {
	Batch int
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("write batch %d: %v", e.Batch, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
