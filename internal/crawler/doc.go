// Package crawler implements the crawl engine: frontier management,
// deduplication, politeness pacing, and the fetch-and-extract pipeline.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates a crawl
// run. Each component is independently testable:
//
//   - Spider: the orchestrator driving the crawl loop
//   - Frontier: the pending/visited/in-flight URL state machine
//   - Limiter / HostLimiter: politeness delay between outbound requests
//   - Fetcher: HTTP requests with error classification
//   - Parser: HTML extraction of title, description, text, and links
//   - Normalize: URL canonicalization for deduplication
//
// Design decision: We implement our own crawl loop rather than using a
// third-party framework because:
//  1. The frontier semantics (strict FIFO, budget at dequeue) are specific
//  2. We need tight control over request pacing
//  3. Extraction is targeted (title/description/text), not generic scraping
//
// # Politeness
//
// The crawler enforces a minimum delay between consecutive requests. The
// baseline is one sequential worker with a single global clock; the
// worker-pool mode keeps politeness per host while fetching different
// hosts in parallel.
//
// # Error handling
//
// Per-page errors are never fatal: every fetch failure is classified
// (timeout, connection, redirect cap), recorded as a page with a sentinel
// status code, and the run continues. Only configuration problems abort a
// run before it starts.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(crawler.WithTimeout(30 * time.Second))
//	spider := crawler.NewSpider(fetcher,
//	    crawler.WithMaxPages(50),
//	    crawler.WithDelay(time.Second),
//	    crawler.WithStore(db),
//	)
//	result, err := spider.Crawl(ctx, []string{"http://example.com/"})
package crawler
