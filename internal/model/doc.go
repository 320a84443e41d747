// Package model defines the core data structures shared across the crawler.
//
// The central types are:
//   - CrawledPage: a fetched page with extracted content, the unit of persistence
//   - CrawlResult: the run-scoped accumulation of pages and summary counters
//
// Design decision: These types live in their own package rather than inside
// the crawler because the database, export, and server packages all consume
// them. Keeping them dependency-free avoids import cycles and keeps the
// data model stable as the components around it evolve.
package model
