// Package server hosts the crawl management HTTP API.
//
// The API exposes health probes for container orchestration, crawl job
// control (start, stop, results), and read access to the page store.
// One crawl job runs at a time; concurrent start requests receive
// 409 Conflict. The crawl engine is injected through the CrawlRunner
// interface so handlers can be tested without network access.
package server
