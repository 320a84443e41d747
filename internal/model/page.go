package model

import "time"

// CrawledPage represents a single fetched page with its extracted content.
// This structure is the unit of persistence: the crawler constructs a
// transient value and hands it to the database, which owns the stored record.
//
// Design decision: We keep both the extracted text and the raw HTML because:
// 1. Text is what downstream consumers (search, export) usually want
// 2. Raw HTML allows re-extraction when the parser improves
// 3. The status code and length are recorded even for failed fetches,
//    so a run always leaves a trace of every URL it attempted
type CrawledPage struct {
	// ID is the database row ID. Zero until the page has been persisted.
	ID int64 `json:"id,omitempty"`

	// URL is the canonical URL of the page. Unique in storage.
	URL string `json:"url"`

	// Title is the page title from the <title> tag. Empty for non-HTML
	// responses and failed fetches.
	Title string `json:"title,omitempty"`

	// Description is the content of the meta description tag, if present.
	Description string `json:"description,omitempty"`

	// TextContent is the whitespace-normalized visible text of the page,
	// with script and style content excluded.
	TextContent string `json:"text_content,omitempty"`

	// HTMLContent is the raw HTML body, truncated to MaxHTMLSize.
	HTMLContent string `json:"html_content,omitempty"`

	// StatusCode is the HTTP response status code.
	// Zero indicates the request never produced a response
	// (connection failure, timeout, too many redirects).
	StatusCode int `json:"status_code"`

	// ContentLength is the size of the response body in bytes,
	// measured before truncation.
	ContentLength int `json:"content_length"`

	// CreatedAt is when the page was first stored.
	// Set by the database on insert and never changed afterwards.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the stored record was last written.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// MaxTextSize is the maximum size of extracted text in bytes.
// We limit this to prevent memory issues with very large pages.
const MaxTextSize = 512 * 1024 // 512 KB

// MaxHTMLSize is the maximum size of raw HTML content to store.
// Larger bodies are truncated to this size.
const MaxHTMLSize = 5 * 1024 * 1024 // 5 MB

// MaxTitleLength bounds the title column in storage.
const MaxTitleLength = 500

// MaxURLLength bounds the url column in storage.
const MaxURLLength = 2048

// Fetched reports whether the page produced an HTTP response at all.
// Pages recorded after connection failures have a zero status code.
func (p *CrawledPage) Fetched() bool {
	return p.StatusCode != 0
}

// Truncate enforces the storage size caps on the page's content fields.
// Call this before handing the page to the persistence layer.
func (p *CrawledPage) Truncate() {
	if len(p.Title) > MaxTitleLength {
		p.Title = p.Title[:MaxTitleLength]
	}
	if len(p.TextContent) > MaxTextSize {
		p.TextContent = p.TextContent[:MaxTextSize]
	}
	if len(p.HTMLContent) > MaxHTMLSize {
		p.HTMLContent = p.HTMLContent[:MaxHTMLSize]
	}
}

// UpsertOutcome describes what an upsert did to the stored record.
type UpsertOutcome int

const (
	// OutcomeInserted means a new row was created for the page's URL.
	OutcomeInserted UpsertOutcome = iota

	// OutcomeUpdated means an existing row for the URL was refreshed.
	OutcomeUpdated
)

// String returns a human-readable name for the outcome.
func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}
