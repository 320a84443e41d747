package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// DBFileName is the SQLite database file created inside the database directory.
const DBFileName = "textcrawler.db"

// CrawlDB provides SQLite-based storage for crawled pages.
// It manages the connection pool and implements the persistence contract:
// upsert keyed on canonical URL, plus the read and query operations the
// management CLI and HTTP API are built on.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for a single-node crawler
// 4. WAL mode provides good concurrent read performance
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of silently creating an empty file.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run 'db init' first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection also makes each
	// upsert atomic without explicit transactions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the location of the SQLite database file.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawled_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url VARCHAR(2048) NOT NULL UNIQUE,
		title VARCHAR(500),
		description TEXT,
		text_content TEXT,
		html_content TEXT,
		status_code INTEGER,
		content_length INTEGER,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_url ON crawled_pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_created_at ON crawled_pages(created_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertPage inserts or updates the stored record for the page's URL.
//
// Insert sets both created_at and updated_at to now. Update touches only
// the content fields and updated_at; created_at keeps the time the URL was
// first stored. The page's ID and timestamps are filled in on return.
func (cdb *CrawlDB) UpsertPage(ctx context.Context, page *model.CrawledPage) (model.UpsertOutcome, error) {
	now := time.Now().UTC()

	var existingID int64
	var createdAt string
	err := cdb.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM crawled_pages WHERE url = ?`, page.URL,
	).Scan(&existingID, &createdAt)

	switch {
	case err == sql.ErrNoRows:
		result, err := cdb.db.ExecContext(ctx, `
		INSERT INTO crawled_pages
			(url, title, description, text_content, html_content, status_code, content_length, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			page.URL,
			page.Title,
			page.Description,
			page.TextContent,
			page.HTMLContent,
			page.StatusCode,
			page.ContentLength,
			formatTimestamp(now),
			formatTimestamp(now),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert page: %w", err)
		}
		page.ID, _ = result.LastInsertId() //nolint:errcheck // sqlite always reports the rowid
		page.CreatedAt = now
		page.UpdatedAt = now
		return model.OutcomeInserted, nil

	case err != nil:
		return 0, fmt.Errorf("failed to look up page: %w", err)
	}

	_, err = cdb.db.ExecContext(ctx, `
	UPDATE crawled_pages SET
		title = ?,
		description = ?,
		text_content = ?,
		html_content = ?,
		status_code = ?,
		content_length = ?,
		updated_at = ?
	WHERE url = ?`,
		page.Title,
		page.Description,
		page.TextContent,
		page.HTMLContent,
		page.StatusCode,
		page.ContentLength,
		formatTimestamp(now),
		page.URL,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update page: %w", err)
	}

	page.ID = existingID
	page.CreatedAt = parseTimestamp(createdAt)
	page.UpdatedAt = now
	return model.OutcomeUpdated, nil
}

// GetPageByURL retrieves a page by its canonical URL.
// Returns nil without error when no record exists.
func (cdb *CrawlDB) GetPageByURL(ctx context.Context, url string) (*model.CrawledPage, error) {
	row := cdb.db.QueryRowContext(ctx, selectColumns+` WHERE url = ?`, url)

	page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// ListPages returns stored pages ordered by recency.
// A limit of zero or less returns all pages; offset skips leading rows.
func (cdb *CrawlDB) ListPages(ctx context.Context, limit, offset int) ([]*model.CrawledPage, error) {
	query := selectColumns + ` ORDER BY created_at DESC, id DESC`
	args := make([]any, 0, 2)

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	} else {
		query += ` LIMIT -1`
	}
	if offset > 0 {
		query += ` OFFSET ?`
		args = append(args, offset)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	return collectPages(rows)
}

// SearchPages returns pages whose URL, title, or text contains the query
// substring, newest first. Matching is case-insensitive for ASCII.
func (cdb *CrawlDB) SearchPages(ctx context.Context, query string) ([]*model.CrawledPage, error) {
	pattern := "%" + escapeLike(query) + "%"

	rows, err := cdb.db.QueryContext(ctx, selectColumns+`
	WHERE url LIKE ? ESCAPE '\'
	   OR title LIKE ? ESCAPE '\'
	   OR text_content LIKE ? ESCAPE '\'
	ORDER BY created_at DESC, id DESC`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}
	defer rows.Close()

	return collectPages(rows)
}

// Stats summarizes the contents of the store.
type Stats struct {
	// TotalPages is the number of stored page records.
	TotalPages int64 `json:"total_pages"`

	// TotalContentLength is the sum of all recorded body sizes in bytes.
	TotalContentLength int64 `json:"total_content_length"`

	// AverageContentLength is TotalContentLength / TotalPages, or zero
	// for an empty store.
	AverageContentLength float64 `json:"average_content_length"`

	// LastCrawledAt is the most recent updated_at across all pages.
	// Zero time for an empty store.
	LastCrawledAt time.Time `json:"last_crawled_at,omitempty"`
}

// GetStats returns summary statistics for the stored pages.
func (cdb *CrawlDB) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var lastCrawled sql.NullString

	err := cdb.db.QueryRowContext(ctx, `
	SELECT COUNT(*), COALESCE(SUM(content_length), 0), MAX(updated_at)
	FROM crawled_pages`,
	).Scan(&stats.TotalPages, &stats.TotalContentLength, &lastCrawled)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if stats.TotalPages > 0 {
		stats.AverageContentLength = float64(stats.TotalContentLength) / float64(stats.TotalPages)
	}
	if lastCrawled.Valid {
		stats.LastCrawledAt = parseTimestamp(lastCrawled.String)
	}

	return &stats, nil
}

// ClearPages deletes all stored pages and returns how many were removed.
func (cdb *CrawlDB) ClearPages(ctx context.Context) (int64, error) {
	result, err := cdb.db.ExecContext(ctx, `DELETE FROM crawled_pages`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear pages: %w", err)
	}
	return result.RowsAffected()
}

// selectColumns is the shared column list for page queries.
const selectColumns = `
	SELECT id, url, title, description, text_content, html_content,
	       status_code, content_length, created_at, updated_at
	FROM crawled_pages`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPage reads one page record from a row.
func scanPage(row rowScanner) (*model.CrawledPage, error) {
	var page model.CrawledPage
	var createdAt, updatedAt string

	err := row.Scan(
		&page.ID,
		&page.URL,
		&page.Title,
		&page.Description,
		&page.TextContent,
		&page.HTMLContent,
		&page.StatusCode,
		&page.ContentLength,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	page.CreatedAt = parseTimestamp(createdAt)
	page.UpdatedAt = parseTimestamp(updatedAt)
	return &page, nil
}

// collectPages drains a result set into a slice of pages.
func collectPages(rows *sql.Rows) ([]*model.CrawledPage, error) {
	var pages []*model.CrawledPage
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// timestampFormat is how timestamps are stored: UTC with a fixed-width
// nanosecond fraction. MAX(updated_at) compares timestamps as strings, so
// the fraction must not trim trailing zeros the way RFC3339Nano does.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// formatTimestamp renders a timestamp for storage.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time so an odd row cannot
// break reads.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
