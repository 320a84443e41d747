package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// ErrJobRunning is returned when a crawl job is already in progress.
var ErrJobRunning = errors.New("crawl job already running")

// ErrNoJob is returned when no crawl job is running or has been run.
var ErrNoJob = errors.New("no crawl job")

// JobStatus mirrors the crawler state reported by /health and /status.
type JobStatus struct {
	// IsRunning reports whether a crawl job is currently active.
	IsRunning bool `json:"is_running"`

	// JobID identifies the most recent job. Empty before the first run.
	JobID string `json:"job_id,omitempty"`

	// StartTime is when the current or last job began.
	StartTime *time.Time `json:"start_time"`

	// EndTime is when the last job finished. Nil while running.
	EndTime *time.Time `json:"end_time"`

	// PagesCrawled counts pages processed by the last completed job.
	PagesCrawled int `json:"pages_crawled"`

	// Errors holds job-level failures from the last run.
	Errors []string `json:"errors"`

	// LastActivity timestamps the most recent state change.
	LastActivity string `json:"last_activity,omitempty"`
}

// jobTracker serializes crawl jobs: one at a time, with cancelable
// execution and a retained result for /crawl/results.
type jobTracker struct {
	mu     sync.Mutex
	status JobStatus
	cancel context.CancelFunc
	result *model.CrawlResult
}

func newJobTracker() *jobTracker {
	return &jobTracker{
		status: JobStatus{Errors: []string{}},
	}
}

// start transitions to running. Returns ErrJobRunning if a job is active.
// The returned context governs the job; cancel it via stop.
func (t *jobTracker) start(jobID string) (context.Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsRunning {
		return nil, ErrJobRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	now := time.Now()
	t.status = JobStatus{
		IsRunning:    true,
		JobID:        jobID,
		StartTime:    &now,
		Errors:       []string{},
		LastActivity: now.Format(time.RFC3339),
	}

	return ctx, nil
}

// finish records the outcome of the running job.
func (t *jobTracker) finish(result *model.CrawlResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.status.IsRunning = false
	t.status.EndTime = &now
	t.status.LastActivity = now.Format(time.RFC3339)

	if result != nil {
		t.result = result
		t.status.PagesCrawled = len(result.Pages)
	}
	if err != nil {
		t.status.Errors = append(t.status.Errors, err.Error())
	}
}

// stop cancels the running job. Returns ErrNoJob if nothing is running.
// The job goroutine observes the cancellation and calls finish itself.
func (t *jobTracker) stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.status.IsRunning {
		return ErrNoJob
	}

	if t.cancel != nil {
		t.cancel()
	}
	t.status.LastActivity = time.Now().Format(time.RFC3339)
	return nil
}

// snapshot returns a copy of the current status.
func (t *jobTracker) snapshot() JobStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := t.status
	status.Errors = append([]string{}, t.status.Errors...)
	return status
}

// lastResult returns the most recent completed result, or ErrNoJob when
// no job has produced one yet.
func (t *jobTracker) lastResult() (*model.CrawlResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.result == nil {
		return nil, ErrNoJob
	}
	return t.result, nil
}
