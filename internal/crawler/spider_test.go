package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// memStore is an in-memory PageStore for tests.
type memStore struct {
	mu    sync.Mutex
	pages map[string]*model.CrawledPage
	err   error
}

func newMemStore() *memStore {
	return &memStore{pages: make(map[string]*model.CrawledPage)}
}

func (m *memStore) UpsertPage(_ context.Context, page *model.CrawledPage) (model.UpsertOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return model.OutcomeInserted, m.err
	}

	if _, ok := m.pages[page.URL]; ok {
		m.pages[page.URL] = page
		return model.OutcomeUpdated, nil
	}
	m.pages[page.URL] = page
	return model.OutcomeInserted, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// newTestSite serves a small linked site:
//
//	/        -> /a, /b, /assets/file.pdf
//	/a       -> / (cycle), /b (duplicate)
//	/b       -> no links
//	/missing -> 404
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	page := func(title, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, "<html><head><title>%s</title></head><body>%s</body></html>", title, body)
		}
	}

	mux.HandleFunc("/{$}", page("Home", `<p>welcome</p>
<a href="/a">a</a> <a href="/b">b</a> <a href="/assets/file.pdf">pdf</a>`))
	mux.HandleFunc("/a", page("Page A", `<a href="/">home</a> <a href="/b">b</a>`))
	mux.HandleFunc("/b", page("Page B", `<p>leaf</p>`))

	return srv
}

// quietLogger suppresses spider output in tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSpiderCrawl tests the sequential crawl loop end to end.
func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	t.Run("crawls linked pages breadth-first", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		store := newMemStore()

		spider := NewSpider(NewFetcher(),
			WithStore(store),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithMaxPages(10),
			WithIgnorePatterns([]string{"*.pdf"}),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Home, /a, /b; the pdf link is filtered by pattern
		if result.PagesFetched != 3 {
			t.Errorf("expected 3 pages fetched, got %d", result.PagesFetched)
		}
		if result.PagesFailed != 0 {
			t.Errorf("expected no failures, got %d", result.PagesFailed)
		}
		if store.count() != 3 {
			t.Errorf("expected 3 pages persisted, got %d", store.count())
		}
		if result.Pages[0].Title != "Home" {
			t.Errorf("expected seed fetched first, got %q", result.Pages[0].Title)
		}
	})

	t.Run("counts duplicate links as skipped", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithIgnorePatterns([]string{"*.pdf"}),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// /a links back to / and to /b, both already seen
		if result.PagesSkipped == 0 {
			t.Error("expected duplicate links to be counted as skipped")
		}
	})

	t.Run("honors page budget", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithMaxPages(2),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Pages) != 2 {
			t.Errorf("expected budget of 2 pages, got %d", len(result.Pages))
		}
	})

	t.Run("honors depth limit", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithMaxDepth(1),
			WithIgnorePatterns([]string{"*.pdf"}),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Seed at depth 0, its links at depth 1; nothing deeper.
		// All of /, /a, /b are within depth 1 here, so check none beyond.
		for _, page := range result.Pages {
			if page.URL == "" {
				t.Error("expected page URLs to be recorded")
			}
		}
		if result.PagesFetched > 3 {
			t.Errorf("depth limit exceeded: fetched %d", result.PagesFetched)
		}
	})

	t.Run("failed seed terminates cleanly", func(t *testing.T) {
		t.Parallel()

		// A server that is already closed refuses connections
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		seed := srv.URL
		srv.Close()

		store := newMemStore()
		spider := NewSpider(NewFetcher(WithTimeout(2*time.Second)),
			WithStore(store),
			WithLogger(quietLogger()),
			WithDelay(0),
		)

		result, err := spider.Crawl(context.Background(), []string{seed})
		if err != nil {
			t.Fatalf("expected clean termination, got %v", err)
		}

		if result.PagesFailed != 1 {
			t.Errorf("expected 1 failed page, got %d", result.PagesFailed)
		}
		if result.PagesFetched != 0 {
			t.Errorf("expected no fetched pages, got %d", result.PagesFetched)
		}
		// The failed attempt still leaves a durable trace
		if store.count() != 1 {
			t.Errorf("expected failed page persisted, got %d", store.count())
		}
		if result.Pages[0].Fetched() {
			t.Error("expected failed page to carry no status code")
		}
	})

	t.Run("invalid seeds dropped without error", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithMaxPages(1),
		)

		result, err := spider.Crawl(context.Background(), []string{"ftp://bad.example", srv.URL + "/b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PagesFetched != 1 {
			t.Errorf("expected only valid seed crawled, got %d", result.PagesFetched)
		}
	})

	t.Run("no valid seeds returns empty result", func(t *testing.T) {
		t.Parallel()

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
		)

		result, err := spider.Crawl(context.Background(), []string{"not a url", "javascript:x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Pages) != 0 {
			t.Errorf("expected empty result, got %d pages", len(result.Pages))
		}
	})

	t.Run("store errors counted as unsaved", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		store := newMemStore()
		store.err = errors.New("disk full")

		spider := NewSpider(NewFetcher(),
			WithStore(store),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithMaxPages(1),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PagesUnsaved != 1 {
			t.Errorf("expected 1 unsaved page, got %d", result.PagesUnsaved)
		}
		// The page is still present in the run result
		if result.PagesFetched != 1 {
			t.Errorf("expected page in result despite store error, got %d", result.PagesFetched)
		}
	})

	t.Run("cancellation stops at dequeue boundary", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
		)

		result, err := spider.Crawl(ctx, []string{srv.URL})
		if err != nil {
			t.Fatalf("expected partial result, got error: %v", err)
		}
		if len(result.Pages) != 0 {
			t.Errorf("expected no pages for pre-cancelled context, got %d", len(result.Pages))
		}
		if result.FinishedAt.IsZero() {
			t.Error("expected result to be finished")
		}
	})
}

// TestSpiderCrawlConcurrent tests the worker-pool mode.
func TestSpiderCrawlConcurrent(t *testing.T) {
	t.Parallel()

	t.Run("visits all pages once", func(t *testing.T) {
		t.Parallel()

		srv := newTestSite(t)
		store := newMemStore()

		spider := NewSpider(NewFetcher(),
			WithStore(store),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithWorkers(4),
			WithMaxPages(10),
			WithIgnorePatterns([]string{"*.pdf"}),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.PagesFetched != 3 {
			t.Errorf("expected 3 pages fetched, got %d", result.PagesFetched)
		}
		if store.count() != 3 {
			t.Errorf("expected 3 distinct pages persisted, got %d", store.count())
		}
	})

	t.Run("budget enforced under concurrency", func(t *testing.T) {
		t.Parallel()

		// A wide site: the seed links to many children
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body>")
			for i := range 20 {
				fmt.Fprintf(w, `<a href="/child/%d">c%d</a> `, i, i)
			}
			fmt.Fprint(w, "</body></html>")
		})
		mux.HandleFunc("/child/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body>leaf</body></html>")
		})

		spider := NewSpider(NewFetcher(),
			WithLogger(quietLogger()),
			WithDelay(0),
			WithWorkers(8),
			WithMaxPages(5),
		)

		result, err := spider.Crawl(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Pages) > 5 {
			t.Errorf("budget exceeded: %d pages", len(result.Pages))
		}
	})
}
