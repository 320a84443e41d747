// Package database provides SQLite-based storage for crawled pages.
//
// The CrawlDB implements the persistence contract of the crawl engine:
// an upsert keyed on the canonical URL, where a re-crawl of a known URL
// updates the existing record instead of inserting a duplicate. It also
// backs the management CLI (stats, list, search, clear) and the HTTP API's
// read endpoints.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// client-server database because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for a single-node crawler
// 4. WAL mode provides good concurrent read performance
//
// Timestamps are written by the application in RFC 3339 (UTC, nanosecond
// precision) rather than relying on CURRENT_TIMESTAMP, so created_at and
// updated_at stay distinguishable for fast consecutive writes.
package database
