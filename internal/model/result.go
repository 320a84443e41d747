package model

import "time"

// CrawlResult accumulates the outcome of a single crawl run.
// It holds the pages produced in discovery order plus summary counters.
// The result is run-scoped: it lives only as long as the run unless
// the caller exports it.
type CrawlResult struct {
	// Pages contains every page the run attempted, in fetch order.
	// This includes failed fetches, which carry a status code and
	// empty content.
	Pages []*CrawledPage `json:"pages"`

	// PagesFetched counts pages that produced an HTTP response.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed counts pages whose fetch failed outright
	// (timeout, connection error, redirect loop).
	PagesFailed int `json:"pages_failed"`

	// PagesSkipped counts URLs dropped as duplicates before fetching.
	PagesSkipped int `json:"pages_skipped"`

	// PagesUnsaved counts pages that fetched but could not be persisted.
	// These pages are still present in Pages.
	PagesUnsaved int `json:"pages_unsaved"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended.
	FinishedAt time.Time `json:"finished_at"`
}

// NewCrawlResult creates an empty result stamped with the current time.
func NewCrawlResult() *CrawlResult {
	return &CrawlResult{
		Pages:     make([]*CrawledPage, 0),
		StartedAt: time.Now(),
	}
}

// AddPage records a successfully fetched page.
func (r *CrawlResult) AddPage(page *CrawledPage) {
	r.Pages = append(r.Pages, page)
	r.PagesFetched++
}

// AddFailure records a page whose fetch failed.
// The page is kept so the run leaves a trace of every attempted URL.
func (r *CrawlResult) AddFailure(page *CrawledPage) {
	r.Pages = append(r.Pages, page)
	r.PagesFailed++
}

// Finish stamps the end of the run.
func (r *CrawlResult) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns the elapsed wall time of the run.
// Returns zero if the run has not finished.
func (r *CrawlResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary holds the run counters in an export-friendly shape.
type Summary struct {
	// PagesFetched is the number of pages that produced a response.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed is the number of failed fetches.
	PagesFailed int `json:"pages_failed"`

	// PagesSkipped is the number of duplicate URLs dropped.
	PagesSkipped int `json:"pages_skipped"`

	// PagesUnsaved is the number of pages that could not be persisted.
	PagesUnsaved int `json:"pages_unsaved"`

	// Duration is the elapsed wall time of the run.
	Duration time.Duration `json:"duration"`
}

// Summary returns the run counters.
func (r *CrawlResult) Summary() Summary {
	return Summary{
		PagesFetched: r.PagesFetched,
		PagesFailed:  r.PagesFailed,
		PagesSkipped: r.PagesSkipped,
		PagesUnsaved: r.PagesUnsaved,
		Duration:     r.Duration(),
	}
}
