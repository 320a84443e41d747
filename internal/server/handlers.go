package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/config"
)

// CrawlRequest is the body of POST /crawl.
type CrawlRequest struct {
	// URLs are the seed URLs to crawl.
	URLs []string `json:"urls"`

	// MaxPages caps the number of pages fetched. Defaults to the
	// standard page budget when zero.
	MaxPages int `json:"max_pages"`

	// Delay is the politeness delay between requests, in seconds.
	// Defaults to the standard delay when zero.
	Delay float64 `json:"delay"`
}

// DelayDuration returns the politeness delay as a time.Duration,
// falling back to the default when unset.
func (r CrawlRequest) DelayDuration() time.Duration {
	if r.Delay <= 0 {
		return config.DefaultDelay
	}
	return time.Duration(r.Delay * float64(time.Second))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Text Crawler API is running",
		"version": s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime":         time.Since(s.startTime).Seconds(),
		"version":        s.version,
		"crawler_status": s.tracker.snapshot(),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	// Readiness covers the store: if a database is attached it must
	// answer a query before we accept traffic that depends on it.
	if s.db != nil {
		if _, err := s.db.GetStats(r.Context()); err != nil {
			s.writeError(w, http.StatusServiceUnavailable, "Service not ready")
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"crawler_status": s.tracker.snapshot(),
		"system_info": map[string]any{
			"go_version":   runtime.Version(),
			"platform":     runtime.GOOS,
			"current_time": time.Now().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleStartCrawl(w http.ResponseWriter, r *http.Request) {
	var req CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.URLs) == 0 {
		s.writeError(w, http.StatusBadRequest, "urls must not be empty")
		return
	}
	if req.MaxPages <= 0 {
		req.MaxPages = config.DefaultMaxPages
	}

	jobID := uuid.NewString()
	ctx, err := s.tracker.start(jobID)
	if err != nil {
		s.writeError(w, http.StatusConflict, "Crawler is already running")
		return
	}

	go s.runJob(ctx, jobID, req)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Crawling started",
		"job_id":    jobID,
		"urls":      req.URLs,
		"max_pages": req.MaxPages,
		"delay":     req.DelayDuration().Seconds(),
	})
}

// runJob executes a crawl in the background and records its outcome.
func (s *Server) runJob(ctx context.Context, jobID string, req CrawlRequest) {
	s.logger.Info("crawl job started", "job_id", jobID, "urls", req.URLs)

	result, err := s.runner.Run(ctx, req)
	s.tracker.finish(result, err)

	if err != nil {
		s.logger.Error("crawl job failed", "job_id", jobID, "error", err)
		return
	}
	s.logger.Info("crawl job finished", "job_id", jobID, "pages", len(result.Pages))
}

func (s *Server) handleStopCrawl(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.stop(); err != nil {
		s.writeError(w, http.StatusConflict, "No crawler is running")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Crawling stopped",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// sampleDataSize limits how many pages /crawl/results inlines.
const sampleDataSize = 3

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	result, err := s.tracker.lastResult()
	if err != nil {
		s.writeError(w, http.StatusNotFound, "No crawl results available")
		return
	}

	sample := result.Pages
	if len(sample) > sampleDataSize {
		sample = sample[:sampleDataSize]
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"stats":       result.Summary(),
		"data_count":  len(result.Pages),
		"sample_data": sample,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	stats, err := s.db.GetStats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read stats")
		s.logger.Error("stats query failed", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// defaultPageLimit is the page count returned by /pages without ?limit=.
const defaultPageLimit = 20

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	pages, err := s.db.ListPages(r.Context(), limit, 0)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list pages")
		s.logger.Error("pages query failed", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"count": len(pages),
		"pages": pages,
	})
}

// writeJSON serializes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

// writeError writes a FastAPI-style error body: {"detail": ..., "timestamp": ...}.
func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]any{
		"detail":    detail,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
