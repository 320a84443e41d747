package crawler

import (
	"sync"
	"time"
)

// Entry is a URL awaiting a fetch, with its discovery metadata.
type Entry struct {
	// URL is the normalized URL.
	URL string

	// Depth is the link distance from the seed that discovered it.
	Depth int

	// Discovered is when the URL entered the frontier.
	Discovered time.Time
}

// Frontier is the pending/visited URL state machine that bounds a crawl.
//
// It tracks three sets: pending (FIFO, so discovery order is breadth-first),
// visited (monotonically growing for the life of the run), and in-flight
// (URLs handed out but not yet completed). A URL passes through the frontier
// exactly once and is never re-enqueued.
//
// Design decision: The frontier is an explicit, injectable component rather
// than state inside the orchestrator so that independent runs never interfere
// and tests can drive the state machine directly without network I/O.
// All operations are mutex-guarded so the worker-pool mode can share one
// frontier; the check-then-insert in Enqueue is atomic under the lock.
type Frontier struct {
	// pending is the FIFO queue of URLs awaiting a fetch.
	pending []Entry

	// queued tracks membership of pending for O(1) dedup checks.
	queued map[string]bool

	// visited contains URLs whose processing has completed.
	visited map[string]bool

	// inflight contains URLs handed out by Next but not yet completed.
	inflight map[string]bool

	// maxPages bounds how many URLs the run may visit.
	maxPages int

	// maxDepth bounds discovery depth. Zero or negative means unlimited.
	maxDepth int

	// mu guards all fields.
	mu sync.Mutex
}

// NewFrontier creates a Frontier bounded by maxPages and maxDepth.
// A maxDepth of zero or less disables the depth limit.
func NewFrontier(maxPages, maxDepth int) *Frontier {
	return &Frontier{
		pending:  make([]Entry, 0),
		queued:   make(map[string]bool),
		visited:  make(map[string]bool),
		inflight: make(map[string]bool),
		maxPages: maxPages,
		maxDepth: maxDepth,
	}
}

// Enqueue adds a URL to the pending queue.
//
// It is a no-op, returning false, if the URL is already pending, visited,
// or in flight, if the depth exceeds the limit, or if the run has already
// claimed its full page budget. The URL must already be normalized.
func (f *Frontier) Enqueue(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxDepth > 0 && depth > f.maxDepth {
		return false
	}
	if f.queued[url] || f.visited[url] || f.inflight[url] {
		return false
	}
	if len(f.visited) >= f.maxPages {
		return false
	}

	f.queued[url] = true
	f.pending = append(f.pending, Entry{
		URL:        url,
		Depth:      depth,
		Discovered: time.Now(),
	})
	return true
}

// Next pops the head of the pending queue and moves it to in-flight.
//
// Returns false when the queue is drained or the page budget is exhausted;
// both are normal termination signals for the run. The budget is re-checked
// here, not only at enqueue time, so an already-long pending queue cannot
// push a run past its limit.
func (f *Frontier) Next() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return Entry{}, false
	}
	if len(f.visited)+len(f.inflight) >= f.maxPages {
		return Entry{}, false
	}

	entry := f.pending[0]
	f.pending = f.pending[1:]
	delete(f.queued, entry.URL)
	f.inflight[entry.URL] = true
	return entry, true
}

// Complete moves a URL from in-flight to visited.
func (f *Frontier) Complete(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.inflight, url)
	f.visited[url] = true
}

// Seen reports whether a URL is anywhere in the state machine:
// pending, in flight, or visited.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queued[url] || f.visited[url] || f.inflight[url]
}

// Visited reports whether a URL has completed processing.
func (f *Frontier) Visited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[url]
}

// VisitedCount returns the number of completed URLs.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// InFlightCount returns the number of URLs handed out but not completed.
func (f *Frontier) InFlightCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inflight)
}

// PendingCount returns the number of URLs awaiting a fetch.
func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
