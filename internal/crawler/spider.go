package crawler

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// PageStore persists crawled pages. Implemented by database.CrawlDB.
//
// Design decision: The spider depends on this narrow interface rather than
// the database package so that tests can substitute an in-memory store and
// the crawl engine stays free of storage concerns.
type PageStore interface {
	// UpsertPage inserts or updates the stored record for the page's URL.
	UpsertPage(ctx context.Context, page *model.CrawledPage) (model.UpsertOutcome, error)
}

// Spider drives the crawl loop: it pulls URLs from the frontier, paces them
// through the rate limiter, fetches and extracts each page, persists the
// record, and feeds discovered links back into the frontier.
//
// Design decision: We call it "Spider" rather than "Crawler" because
// "Spider" is the traditional term and it distinguishes the component from
// the package name: crawler.NewSpider() reads better than crawler.NewCrawler().
type Spider struct {
	// fetcher performs the HTTP requests.
	fetcher *Fetcher

	// store receives every crawled page. Nil disables persistence.
	store PageStore

	// logger for structured logging.
	logger *slog.Logger

	// delay is the politeness gap between outbound requests.
	delay time.Duration

	// maxPages limits the total number of pages visited per run.
	maxPages int

	// maxDepth limits link distance from the seeds. Zero means unlimited.
	maxDepth int

	// workers is the fetch concurrency. One means the sequential baseline;
	// higher values enable the bounded worker pool with per-host pacing.
	workers int

	// ignorePatterns are URL path patterns to skip during crawling.
	// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
	ignorePatterns []string

	// followPatterns restrict crawling to matching URL paths when set.
	followPatterns []string
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithStore sets the persistence adapter for crawled pages.
func WithStore(store PageStore) SpiderOption {
	return func(s *Spider) {
		s.store = store
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithDelay sets the politeness delay between requests.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithMaxPages sets the maximum number of pages to crawl.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithMaxDepth sets the maximum crawl depth.
// Zero disables the depth limit.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithWorkers sets the fetch concurrency.
// Values above one switch the run to the worker-pool mode, where the
// politeness delay applies per host instead of globally.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		s.workers = n
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// If set, only URLs matching at least one pattern are crawled.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// NewSpider creates a Spider with the given fetcher.
func NewSpider(fetcher *Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		delay:    1 * time.Second,
		maxPages: 10,
		workers:  1,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.workers < 1 {
		s.workers = 1
	}

	return s
}

// Crawl runs a complete crawl from the seed URLs and returns the result.
//
// Every iteration is independent: a failure at any stage for one URL is
// recorded on the result and the loop proceeds. Cancellation takes effect
// at the next frontier-dequeue boundary; a fetch already in flight is
// allowed to finish and its result is still persisted. A completed run
// always returns a CrawlResult, even if every page failed.
func (s *Spider) Crawl(ctx context.Context, seeds []string) (*model.CrawlResult, error) {
	result := model.NewCrawlResult()
	defer result.Finish()

	frontier := NewFrontier(s.maxPages, s.maxDepth)
	for _, seed := range seeds {
		normalized, err := Normalize(seed)
		if err != nil {
			s.logger.Warn("dropping invalid seed URL", "url", seed, "error", err)
			continue
		}
		frontier.Enqueue(normalized, 0)
	}

	if s.workers > 1 {
		s.crawlConcurrent(ctx, frontier, result)
	} else {
		s.crawlSequential(ctx, frontier, result)
	}

	s.logger.Info("crawl finished",
		"fetched", result.PagesFetched,
		"failed", result.PagesFailed,
		"skipped", result.PagesSkipped,
		"unsaved", result.PagesUnsaved,
	)
	return result, nil
}

// crawlSequential is the baseline single-worker loop with a global clock.
func (s *Spider) crawlSequential(ctx context.Context, frontier *Frontier, result *model.CrawlResult) {
	limiter := NewLimiter(s.delay)
	var mu sync.Mutex

	for {
		// Cancellation is honored here, at the dequeue boundary
		select {
		case <-ctx.Done():
			s.logger.Info("crawl cancelled", "visited", frontier.VisitedCount())
			return
		default:
		}

		entry, ok := frontier.Next()
		if !ok {
			return
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		s.processEntry(ctx, entry, frontier, result, &mu)
	}
}

// crawlConcurrent runs the bounded worker pool with per-host politeness.
func (s *Spider) crawlConcurrent(ctx context.Context, frontier *Frontier, result *model.CrawlResult) {
	limiter := NewHostLimiter(s.delay)
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	// A worker signals here after completing an entry so the dispatcher
	// can re-check the frontier: completions may have enqueued new links.
	done := make(chan struct{}, 1)

	for {
		if ctx.Err() != nil {
			break
		}

		entry, ok := frontier.Next()
		if !ok {
			if frontier.InFlightCount() == 0 {
				break
			}
			select {
			case <-done:
			case <-ctx.Done():
			}
			continue
		}

		g.Go(func() error {
			defer func() {
				select {
				case done <- struct{}{}:
				default:
				}
			}()

			if err := limiter.Wait(ctx, entry.URL); err != nil {
				return nil
			}
			s.processEntry(ctx, entry, frontier, result, &mu)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return errors
}

// processEntry handles one frontier entry end to end: fetch, extract,
// persist, and feed discovered links back through the normalizer.
func (s *Spider) processEntry(ctx context.Context, entry Entry, frontier *Frontier, result *model.CrawlResult, mu *sync.Mutex) {
	defer frontier.Complete(entry.URL)

	s.logger.Debug("crawling", "url", entry.URL, "depth", entry.Depth)

	// An in-flight fetch finishes even if the run is cancelled; the
	// fetcher's own timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	fetched, err := s.fetcher.Fetch(fetchCtx, entry.URL)

	page := &model.CrawledPage{URL: entry.URL}
	var content *Content

	if err != nil {
		s.logger.Warn("fetch failed", "url", entry.URL, "error", err)
	} else {
		page.StatusCode = fetched.StatusCode
		page.ContentLength = fetched.ContentLength
		if fetched.HTML && fetched.Body != "" {
			page.HTMLContent = fetched.Body
			if parser, perr := NewParser(entry.URL); perr == nil {
				if c, perr := parser.Parse(strings.NewReader(fetched.Body)); perr == nil {
					content = c
					page.Title = c.Title
					page.Description = c.Description
					page.TextContent = c.Text
				}
			}
		}
	}
	page.Truncate()

	mu.Lock()
	if err != nil {
		result.AddFailure(page)
	} else {
		result.AddPage(page)
	}
	mu.Unlock()

	// Failed fetches are persisted too: the URL, sentinel status, and
	// timestamps still form a durable trace of the attempt.
	if s.store != nil {
		outcome, serr := s.store.UpsertPage(fetchCtx, page)
		if serr != nil {
			s.logger.Error("failed to persist page", "url", entry.URL, "error", serr)
			mu.Lock()
			result.PagesUnsaved++
			mu.Unlock()
		} else {
			s.logger.Debug("page persisted", "url", entry.URL, "outcome", outcome.String())
		}
	}

	if content == nil {
		return
	}

	for _, link := range content.Links {
		if frontier.Seen(link) {
			mu.Lock()
			result.PagesSkipped++
			mu.Unlock()
			continue
		}
		if !s.shouldCrawl(link) {
			continue
		}
		frontier.Enqueue(link, entry.Depth+1)
	}
}
