package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/database"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// defaultShutdownTimeout bounds how long graceful shutdown waits for
// in-flight requests before forcing the listener closed.
const defaultShutdownTimeout = 10 * time.Second

// CrawlRunner executes a crawl job. The server does not drive the crawl
// engine directly so handlers can be tested against a fake runner.
type CrawlRunner interface {
	// Run crawls the requested URLs and returns the accumulated result.
	// It must honor ctx cancellation by stopping at the next page boundary.
	Run(ctx context.Context, req CrawlRequest) (*model.CrawlResult, error)
}

// Server hosts the crawl management HTTP API.
//
// Design decision: One crawl job runs at a time. The underlying store
// serializes writes anyway, and a single-slot model keeps the status
// endpoint unambiguous. Concurrent start requests get 409 Conflict.
type Server struct {
	addr    string
	logger  *slog.Logger
	db      *database.CrawlDB
	runner  CrawlRunner
	version string

	startTime time.Time
	tracker   *jobTracker
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to ":8000".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger for request and job lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDB attaches a page store, enabling the /stats and /pages endpoints.
// Without it those endpoints report 503 Service Unavailable.
func WithDB(db *database.CrawlDB) Option {
	return func(s *Server) {
		s.db = db
	}
}

// WithVersion sets the version string reported by / and /health.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a Server that dispatches crawl jobs to the given runner.
func New(runner CrawlRunner, opts ...Option) *Server {
	s := &Server{
		addr:      ":8000",
		logger:    slog.Default(),
		runner:    runner,
		version:   "dev",
		startTime: time.Now(),
		tracker:   newJobTracker(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the route table as an http.Handler.
// Exposed separately from Serve for tests with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/live", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /crawl", s.handleStartCrawl)
	mux.HandleFunc("POST /crawl/stop", s.handleStopCrawl)
	mux.HandleFunc("GET /crawl/results", s.handleResults)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /pages", s.handlePages)

	return mux
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully. A running crawl job is canceled as part of shutdown.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.tracker.stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
