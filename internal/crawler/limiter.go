package crawler

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// Limiter enforces a minimum delay between consecutive outbound requests.
// It is a single shared stopwatch: one clock for the whole run, matching
// the crawler's single delay knob.
//
// Design decision: We record the timestamp after waiting rather than after
// the request completes because the politeness guarantee is about the gap
// between fetch starts. Never cancels a request once started.
type Limiter struct {
	// delay is the minimum gap between requests. Zero disables waiting.
	delay time.Duration

	// last is the time the previous request was released.
	last time.Time

	// mu protects last when the worker-pool mode shares the limiter.
	mu sync.Mutex
}

// NewLimiter creates a Limiter with the given delay.
func NewLimiter(delay time.Duration) *Limiter {
	return &Limiter{delay: delay}
}

// Wait blocks until at least the configured delay has elapsed since the
// previous call released. Returns early with the context error if the
// context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.delay <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	remaining := l.delay - now.Sub(l.last)
	if remaining < 0 {
		remaining = 0
	}
	// Reserve the next slot before sleeping so concurrent callers
	// queue up behind each other instead of releasing together.
	l.last = now.Add(remaining)
	l.mu.Unlock()

	if remaining == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(remaining):
		return nil
	}
}

// HostLimiter enforces a per-host politeness delay.
// It generalizes Limiter for the worker-pool mode: requests to different
// hosts may proceed in parallel while requests to the same host keep the
// configured gap. Represented as a mapping from host to the last-request
// timestamp rather than a single scalar.
type HostLimiter struct {
	// delay is the minimum gap between requests to the same host.
	delay time.Duration

	// last maps host to the time its previous request was released.
	last map[string]time.Time

	// mu protects last.
	mu sync.Mutex
}

// NewHostLimiter creates a HostLimiter with the given per-host delay.
func NewHostLimiter(delay time.Duration) *HostLimiter {
	return &HostLimiter{
		delay: delay,
		last:  make(map[string]time.Time),
	}
}

// Wait blocks until the host's delay has elapsed since its previous request.
// The host is derived from the URL; URLs that fail to parse fall back to a
// shared empty-host slot rather than skipping politeness.
func (hl *HostLimiter) Wait(ctx context.Context, pageURL string) error {
	if hl.delay <= 0 {
		return nil
	}

	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = u.Host
	}

	hl.mu.Lock()
	now := time.Now()
	remaining := hl.delay - now.Sub(hl.last[host])
	if remaining < 0 {
		remaining = 0
	}
	hl.last[host] = now.Add(remaining)
	hl.mu.Unlock()

	if remaining == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(remaining):
		return nil
	}
}
