package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// maxRedirects caps the length of a redirect chain.
// Chains longer than this fail with ErrTooManyRedirects.
const maxRedirects = 5

// Fetcher performs HTTP requests and captures status, timing, and errors.
//
// Design decision: We accept an optional external client because:
//  1. Tests can inject httptest clients
//  2. Callers can customize transport settings (proxies, TLS)
//  3. A single client shares connection pools across the run
type Fetcher struct {
	// client is the HTTP client used for requests.
	client *http.Client

	// timeout applies to each individual fetch.
	timeout time.Duration

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64
}

// FetchResult holds the outcome of a single fetch.
type FetchResult struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is the response body decoded to UTF-8, truncated to the
	// configured size limit. Empty for non-HTML responses.
	Body string

	// ContentType is the MIME type from the Content-Type header,
	// without parameters.
	ContentType string

	// ContentLength is the number of raw body bytes read.
	ContentLength int

	// Elapsed is the wall time the request took.
	Elapsed time.Duration

	// HTML reports whether the content type indicates an HTML document.
	// Non-HTML responses are recorded but never handed to the extractor.
	HTML bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithClient sets a custom HTTP client.
// The client's CheckRedirect is replaced to enforce the redirect cap.
func WithClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
// Zero or negative values keep the default limit.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewFetcher creates a Fetcher with sensible defaults.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout:     30 * time.Second,
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{}
	}
	f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return ErrTooManyRedirects
		}
		return nil
	}

	return f
}

// Fetch performs a GET request against the URL and captures the result.
//
// All failures are classified into the package's error taxonomy:
// ErrTimeout, ErrConnection, or ErrTooManyRedirects. A nil error means an
// HTTP response was received, regardless of its status code (a 404 is a
// valid result, not a fetch failure).
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyFetchError(pageURL, err)
	}
	defer resp.Body.Close()

	// Read raw bytes with the size limit applied
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, classifyFetchError(pageURL, err)
	}
	elapsed := time.Since(start)

	contentType := resp.Header.Get("Content-Type")
	result := &FetchResult{
		StatusCode:    resp.StatusCode,
		ContentType:   mimeType(contentType),
		ContentLength: len(raw),
		Elapsed:       elapsed,
		HTML:          isHTML(contentType),
	}

	// Non-HTML responses keep status and length but carry no body downstream.
	if !result.HTML {
		return result, nil
	}

	// Decode to UTF-8 based on the declared charset or in-body sniffing.
	// Decoding failure degrades to the raw bytes rather than failing the page.
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		result.Body = string(raw)
		return result, nil
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		result.Body = string(raw)
		return result, nil
	}
	result.Body = string(decoded)

	return result, nil
}

// classifyFetchError maps transport errors onto the package taxonomy.
func classifyFetchError(pageURL string, err error) error {
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return fmt.Errorf("%w: %s", ErrTooManyRedirects, pageURL)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrTimeout, pageURL)
	}

	// url.Error wraps timeouts from the transport layer
	type timeouter interface{ Timeout() bool }
	var te timeouter
	if errors.As(err, &te) && te.Timeout() {
		return fmt.Errorf("%w: %s", ErrTimeout, pageURL)
	}

	return fmt.Errorf("%w: %s: %v", ErrConnection, pageURL, err)
}

// mimeType strips parameters from a Content-Type header value.
func mimeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

// isHTML reports whether a Content-Type header indicates an HTML document.
// An empty header is treated as HTML: servers that omit it overwhelmingly
// serve HTML, and the parser degrades gracefully on anything else.
func isHTML(contentType string) bool {
	mt := strings.ToLower(mimeType(contentType))
	return mt == "" || mt == "text/html" || mt == "application/xhtml+xml"
}
