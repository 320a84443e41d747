package crawler

import (
	"fmt"
	"sync"
	"testing"
)

// TestFrontierEnqueue tests admission rules.
func TestFrontierEnqueue(t *testing.T) {
	t.Parallel()

	t.Run("accepts new url", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		if !f.Enqueue("http://example.com/", 0) {
			t.Error("expected new URL to be accepted")
		}
		if f.PendingCount() != 1 {
			t.Errorf("expected 1 pending, got %d", f.PendingCount())
		}
	})

	t.Run("rejects duplicate pending url", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		f.Enqueue("http://example.com/", 0)
		if f.Enqueue("http://example.com/", 1) {
			t.Error("expected duplicate to be rejected")
		}
		if f.PendingCount() != 1 {
			t.Errorf("expected 1 pending, got %d", f.PendingCount())
		}
	})

	t.Run("rejects visited url", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		f.Enqueue("http://example.com/", 0)
		entry, _ := f.Next()
		f.Complete(entry.URL)

		if f.Enqueue("http://example.com/", 0) {
			t.Error("expected visited URL to be rejected")
		}
	})

	t.Run("rejects in-flight url", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		f.Enqueue("http://example.com/", 0)
		f.Next()

		if f.Enqueue("http://example.com/", 0) {
			t.Error("expected in-flight URL to be rejected")
		}
	})

	t.Run("rejects beyond depth limit", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 2)
		if !f.Enqueue("http://example.com/depth2", 2) {
			t.Error("expected depth 2 to be accepted at limit 2")
		}
		if f.Enqueue("http://example.com/depth3", 3) {
			t.Error("expected depth 3 to be rejected at limit 2")
		}
	})

	t.Run("zero depth limit means unlimited", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		if !f.Enqueue("http://example.com/deep", 1000) {
			t.Error("expected unlimited depth to accept any depth")
		}
	})

	t.Run("rejects when budget claimed", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(1, 0)
		f.Enqueue("http://example.com/a", 0)
		entry, _ := f.Next()
		f.Complete(entry.URL)

		if f.Enqueue("http://example.com/b", 0) {
			t.Error("expected enqueue to fail once budget is spent")
		}
	})
}

// TestFrontierNext tests FIFO ordering and budget enforcement.
func TestFrontierNext(t *testing.T) {
	t.Parallel()

	t.Run("fifo order", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		urls := []string{
			"http://example.com/a",
			"http://example.com/b",
			"http://example.com/c",
		}
		for _, u := range urls {
			f.Enqueue(u, 0)
		}

		for _, want := range urls {
			entry, ok := f.Next()
			if !ok {
				t.Fatal("expected entry")
			}
			if entry.URL != want {
				t.Errorf("expected %s, got %s", want, entry.URL)
			}
			f.Complete(entry.URL)
		}
	})

	t.Run("empty queue returns false", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(10, 0)
		if _, ok := f.Next(); ok {
			t.Error("expected Next to fail on empty queue")
		}
	})

	t.Run("budget re-checked at dequeue", func(t *testing.T) {
		t.Parallel()

		// A long pending queue must not push the run past its budget.
		f := NewFrontier(2, 0)
		for i := range 5 {
			f.Enqueue(fmt.Sprintf("http://example.com/%d", i), 0)
		}

		var served int
		for {
			entry, ok := f.Next()
			if !ok {
				break
			}
			f.Complete(entry.URL)
			served++
		}
		if served != 2 {
			t.Errorf("expected budget of 2 to be enforced, served %d", served)
		}
	})

	t.Run("in-flight counts against budget", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier(1, 0)
		f.Enqueue("http://example.com/a", 0)
		f.Enqueue("http://example.com/b", 0)

		if _, ok := f.Next(); !ok {
			t.Fatal("expected first entry")
		}
		// First entry still in flight, budget is claimed
		if _, ok := f.Next(); ok {
			t.Error("expected Next to fail while budget is claimed by in-flight work")
		}
	})
}

// TestFrontierBreadthFirstCycle walks a linked cycle A->B->C->A plus a
// page D linked from A, verifying budget-bounded breadth-first traversal
// with no revisits.
func TestFrontierBreadthFirstCycle(t *testing.T) {
	t.Parallel()

	links := map[string][]string{
		"http://site.test/A": {"http://site.test/B", "http://site.test/D"},
		"http://site.test/B": {"http://site.test/C"},
		"http://site.test/C": {"http://site.test/A"},
		"http://site.test/D": {},
	}

	f := NewFrontier(3, 0)
	f.Enqueue("http://site.test/A", 0)

	var order []string
	for {
		entry, ok := f.Next()
		if !ok {
			break
		}
		order = append(order, entry.URL)
		for _, link := range links[entry.URL] {
			f.Enqueue(link, entry.Depth+1)
		}
		f.Complete(entry.URL)
	}

	want := []string{"http://site.test/A", "http://site.test/B", "http://site.test/D"}
	if len(order) != len(want) {
		t.Fatalf("expected %d pages, visited %v", len(want), order)
	}
	for i, u := range want {
		if order[i] != u {
			t.Errorf("position %d: expected %s, got %s", i, u, order[i])
		}
	}
	if f.Visited("http://site.test/C") {
		t.Error("C should not have been visited within the page budget")
	}
}

// TestFrontierSeen tests membership across all three sets.
func TestFrontierSeen(t *testing.T) {
	t.Parallel()

	f := NewFrontier(10, 0)

	if f.Seen("http://example.com/") {
		t.Error("unknown URL should not be seen")
	}

	f.Enqueue("http://example.com/", 0)
	if !f.Seen("http://example.com/") {
		t.Error("pending URL should be seen")
	}

	entry, _ := f.Next()
	if !f.Seen(entry.URL) {
		t.Error("in-flight URL should be seen")
	}

	f.Complete(entry.URL)
	if !f.Seen(entry.URL) {
		t.Error("visited URL should be seen")
	}
}

// TestFrontierConcurrent exercises the frontier from multiple goroutines.
func TestFrontierConcurrent(t *testing.T) {
	t.Parallel()

	const budget = 50
	f := NewFrontier(budget, 0)
	for i := range 200 {
		f.Enqueue(fmt.Sprintf("http://example.com/%d", i), 0)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				entry, ok := f.Next()
				if !ok {
					return
				}
				f.Complete(entry.URL)
				mu.Lock()
				total++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Workers racing Next against Complete may leave the count slightly
	// under budget, never over it.
	if total > budget {
		t.Errorf("budget exceeded: visited %d of %d", total, budget)
	}
	if f.VisitedCount() != total {
		t.Errorf("visited count %d does not match served %d", f.VisitedCount(), total)
	}
}
