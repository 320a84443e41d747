package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/config"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/crawler"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/database"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/export"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url> [<url>...]",
		Short: "Crawl web pages starting from the given seed URLs",
		Long: `Crawl fetches pages breadth-first from the seed URLs, extracts their
readable text, and follows same-run links until the page budget is spent.

Each request waits for the politeness delay, duplicate URLs are fetched
only once, and binary assets (images, PDFs, stylesheets) are skipped.

Examples:
  # Crawl a site with defaults (10 pages, 1s delay)
  textcrawler crawl https://example.com

  # Crawl more pages faster
  textcrawler crawl --max-pages 100 --delay 500ms https://example.com

  # Crawl concurrently with per-host politeness
  textcrawler crawl --workers 4 https://example.com https://example.org

  # Save pages to the database and export a JSON file
  textcrawler crawl --db --output result.json --format json https://example.com

  # Use a custom configuration file
  textcrawler crawl -c myconfig.yaml https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Politeness delay between requests")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl")
	cmd.Flags().Int("max-depth", 0,
		"Maximum link depth from the seeds (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request fetch timeout")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetch workers")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for outbound requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().StringSlice("ignore", nil,
		"URL path patterns to skip (glob syntax, repeatable)")
	cmd.Flags().StringSlice("follow", nil,
		"Restrict crawling to matching URL path patterns")

	// Persistence flags
	cmd.Flags().Bool("db", false,
		"Save crawled pages to the SQLite database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .textcrawler in current or home directory)")

	// Export flags
	cmd.Flags().StringP("output", "o", "",
		"Write the crawl result to the specified file path")
	cmd.Flags().StringP("format", "f", "txt",
		"Export format: txt, json, csv, or markdown")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// YAML configuration file. Flags win over file values, which win over
// defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the config file first so explicit flags can override it.
	// An explicitly specified file must exist; the default search may
	// come up empty without error.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if cmd.Flags().Changed("delay") {
		if cfg.Delay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-pages") {
		if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-depth") {
		if cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-body-size") {
		if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("ignore") {
		if cfg.IgnorePatterns, err = cmd.Flags().GetStringSlice("ignore"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("follow") {
		if cfg.FollowPatterns, err = cmd.Flags().GetStringSlice("follow"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("db") {
		if cfg.UseDatabase, err = cmd.Flags().GetBool("db"); err != nil {
			return nil, err
		}
	}
	if dbDir, err := cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	} else if dbDir != "" {
		cfg.DBDir = dbDir
		cfg.UseDatabase = true
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.OutputFormat, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	// Positional arguments are seed URLs, added after any file seeds
	cfg.Seeds = append(cfg.Seeds, args...)

	return cfg, nil
}

// runCrawl executes the crawl and writes the result.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"maxPages", cfg.MaxPages,
		"delay", cfg.Delay,
		"workers", cfg.Workers,
		"saveToDB", cfg.UseDatabase,
	)

	var store crawler.PageStore
	if cfg.UseDatabase {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
		store = db
	}

	spider := newSpider(cfg, store, logger)

	startTime := time.Now()
	result, err := spider.Crawl(ctx, cfg.Seeds)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Crawl completed in %s\n\n", elapsed.Round(time.Millisecond))

	if err := outputResult(cfg, result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	printSummary(result)
	return nil
}

// newSpider assembles the crawl engine from the configuration.
func newSpider(cfg *config.Config, store crawler.PageStore, logger *slog.Logger) *crawler.Spider {
	fetcher := crawler.NewFetcher(
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	opts := []crawler.SpiderOption{
		crawler.WithLogger(logger),
		crawler.WithDelay(cfg.Delay),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithIgnorePatterns(cfg.IgnorePatterns),
		crawler.WithFollowPatterns(cfg.FollowPatterns),
	}
	if store != nil {
		opts = append(opts, crawler.WithStore(store))
	}

	return crawler.NewSpider(fetcher, opts...)
}

// outputResult writes the result to the configured file, if any.
func outputResult(cfg *config.Config, result *model.CrawlResult) error {
	if cfg.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w, err := export.New(cfg.OutputFormat, f)
	if err != nil {
		return err
	}

	n, err := w.Write(result)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d bytes to %s\n", n, cfg.OutputFile)
	return nil
}

// printSummary prints the run counters to stdout.
func printSummary(result *model.CrawlResult) {
	summary := result.Summary()
	fmt.Printf("Pages fetched:  %d\n", summary.PagesFetched)
	fmt.Printf("Pages failed:   %d\n", summary.PagesFailed)
	fmt.Printf("Pages skipped:  %d\n", summary.PagesSkipped)
	if summary.PagesUnsaved > 0 {
		fmt.Printf("Pages unsaved:  %d\n", summary.PagesUnsaved)
	}
	fmt.Printf("Duration:       %s\n", summary.Duration.Round(time.Millisecond))
}
