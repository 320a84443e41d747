package crawler

import "errors"

// Crawl error taxonomy.
// Per-page errors are never fatal to a run: the orchestrator absorbs them
// and records the outcome on the page. These sentinels exist so callers and
// tests can classify failures with errors.Is().
//
// Design decision: We use package-level sentinel errors rather than error
// types because no failure carries structured data beyond its category.
// fetch errors wrap these sentinels with the URL for human-readable messages.
var (
	// ErrInvalidURL is returned when a URL cannot be parsed or uses an
	// unsupported scheme. Links that fail normalization are dropped.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrTimeout is returned when a fetch exceeds the configured timeout.
	ErrTimeout = errors.New("fetch timed out")

	// ErrConnection is returned when the request never produced an HTTP
	// response (DNS failure, refused connection, reset).
	ErrConnection = errors.New("connection failed")

	// ErrTooManyRedirects is returned when a redirect chain exceeds the cap.
	ErrTooManyRedirects = errors.New("too many redirects")
)
