package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/config"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl <url> [<url>...]" {
			t.Errorf("unexpected use: %q", cmd.Use)
		}
	})

	t.Run("has crawl behavior flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"delay", "max-pages", "max-depth", "timeout", "workers",
			"user-agent", "max-body-size", "ignore", "follow",
			"db", "db-dir", "config", "output", "format",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("default format is txt", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.DefValue != "txt" {
			t.Errorf("expected default 'txt', got %q", flag.DefValue)
		}
	})
}

// parseCrawlFlags creates a crawl command and parses the given flags.
func parseCrawlFlags(t *testing.T, flags ...string) *config.Config {
	t.Helper()

	cmd := NewCrawlCmd()
	args := append([]string{}, flags...)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := buildConfig(cmd, cmd.Flags().Args())
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	return cfg
}

// TestBuildConfig tests flag and file layering.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := parseCrawlFlags(t, "http://example.com")

		if cfg.Delay != config.DefaultDelay {
			t.Errorf("expected default delay, got %v", cfg.Delay)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected default max pages, got %d", cfg.MaxPages)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "http://example.com" {
			t.Errorf("expected positional seed, got %v", cfg.Seeds)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cfg := parseCrawlFlags(t,
			"--delay", "250ms",
			"--max-pages", "50",
			"--workers", "4",
			"http://example.com",
		)

		if cfg.Delay != 250*time.Millisecond {
			t.Errorf("expected 250ms delay, got %v", cfg.Delay)
		}
		if cfg.MaxPages != 50 {
			t.Errorf("expected max pages 50, got %d", cfg.MaxPages)
		}
		if cfg.Workers != 4 {
			t.Errorf("expected 4 workers, got %d", cfg.Workers)
		}
	})

	t.Run("config file supplies values", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "seeds:\n  - http://example.org\nmaxPages: 42\ndelay: 2s\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := parseCrawlFlags(t, "--config", configPath)

		if cfg.MaxPages != 42 {
			t.Errorf("expected file max pages 42, got %d", cfg.MaxPages)
		}
		if cfg.Delay != 2*time.Second {
			t.Errorf("expected file delay 2s, got %v", cfg.Delay)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "http://example.org" {
			t.Errorf("expected file seed, got %v", cfg.Seeds)
		}
	})

	t.Run("flags win over config file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "maxPages: 42\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := parseCrawlFlags(t,
			"--config", configPath,
			"--max-pages", "7",
			"http://example.com",
		)

		if cfg.MaxPages != 7 {
			t.Errorf("expected flag to win with 7, got %d", cfg.MaxPages)
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/config.yaml"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("db-dir implies database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := parseCrawlFlags(t, "--db-dir", dir, "http://example.com")

		if !cfg.UseDatabase {
			t.Error("expected --db-dir to enable database persistence")
		}
		if cfg.DBDir != dir {
			t.Errorf("expected db dir %q, got %q", dir, cfg.DBDir)
		}
	})
}

// TestCrawlCmdValidation tests that invalid configurations are rejected
// before any network activity.
func TestCrawlCmdValidation(t *testing.T) {
	t.Parallel()

	t.Run("no seeds", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig failed: %v", err)
		}
		if err := cfg.Validate(); !errors.Is(err, config.ErrNoSeeds) {
			t.Errorf("expected ErrNoSeeds, got %v", err)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		t.Parallel()

		cfg := parseCrawlFlags(t, "--format", "xml", "http://example.com")
		if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidOutputFormat) {
			t.Errorf("expected ErrInvalidOutputFormat, got %v", err)
		}
	})
}
