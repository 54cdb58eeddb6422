package fetcher

import "fmt"

// ErrorKind partitions fetch failures for callers that only need to
// know whether a page is worth retrying elsewhere. Every kind is
// recoverable: a failed page is skipped, never fatal to a crawl.
type ErrorKind string

const (
	KindTimeout      ErrorKind = "timeout"
	KindNonHTML      ErrorKind = "non_html"
	KindNotFound     ErrorKind = "not_found"
	KindNetworkError ErrorKind = "network_error"
)

// FetchError is the typed failure returned by the Provider.
type FetchError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed (%s): %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s failed (%s)", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(kind ErrorKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}
