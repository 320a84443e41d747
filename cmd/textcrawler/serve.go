package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/config"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/crawler"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/database"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the crawl management HTTP API",
		Long: `Serve hosts an HTTP API for starting and monitoring crawl jobs.

Endpoints include health probes (/health, /health/live, /health/ready),
job control (POST /crawl, POST /crawl/stop, GET /crawl/results), and
read access to the page store (GET /stats, GET /pages).

Crawled pages are saved to the database automatically.

Examples:
  # Listen on the default port 8000
  textcrawler serve

  # Custom address and database location
  textcrawler serve --addr :9000 --db-dir /var/lib/textcrawler`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddr,
		"HTTP listen address")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request fetch timeout")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for outbound requests")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	userAgent, err := cmd.Flags().GetString("user-agent")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", db.Path())

	runner := &spiderRunner{
		db:      db,
		logger:  logger,
		fetcher: crawler.NewFetcher(crawler.WithTimeout(timeout), crawler.WithUserAgent(userAgent)),
		ignore:  config.DefaultIgnorePatterns,
	}

	srv := server.New(runner,
		server.WithAddr(addr),
		server.WithLogger(logger),
		server.WithDB(db),
		server.WithVersion(getVersion()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}

// spiderRunner adapts the crawl engine to the server's CrawlRunner
// interface, building a fresh Spider per job from request parameters.
type spiderRunner struct {
	db       *database.CrawlDB
	logger   *slog.Logger
	fetcher  *crawler.Fetcher
	maxDepth int
	ignore   []string
}

// Run crawls the requested URLs, persisting every page to the database.
func (r *spiderRunner) Run(ctx context.Context, req server.CrawlRequest) (*model.CrawlResult, error) {
	spider := crawler.NewSpider(r.fetcher,
		crawler.WithStore(r.db),
		crawler.WithLogger(r.logger),
		crawler.WithDelay(req.DelayDuration()),
		crawler.WithMaxPages(req.MaxPages),
		crawler.WithMaxDepth(r.maxDepth),
		crawler.WithIgnorePatterns(r.ignore),
	)

	return spider.Crawl(ctx, req.URLs)
}
