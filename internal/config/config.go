package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror conservative crawler etiquette: a one second politeness
// delay and a small page budget unless the user asks for more.
const (
	// DefaultDelay is the politeness delay between outbound requests.
	// One second is conservative and respectful of server resources.
	DefaultDelay = 1 * time.Second

	// DefaultMaxPages bounds a crawl run. A small default prevents an
	// accidental seed from walking a large site.
	DefaultMaxPages = 10

	// DefaultTimeout is the per-request fetch timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers is the fetch concurrency. One worker is the
	// baseline sequential mode with a single global politeness clock.
	DefaultWorkers = 1

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is sufficient for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultListenAddr is where the HTTP API listens.
	DefaultListenAddr = ":8000"

	// AppName is the application name used for XDG directory paths.
	AppName = "textcrawler"
)

// DefaultIgnorePatterns skip binary and style assets that carry no
// extractable text. Applied unless the user overrides the ignore list.
var DefaultIgnorePatterns = []string{
	"*.pdf", "*.jpg", "*.jpeg", "*.png", "*.gif", "*.css", "*.js",
}

// Config holds all options for a crawl run and its host process.
// It is populated from CLI flags and an optional YAML file, validated once,
// then passed through the application by dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested sub-configs
// because the number of options is manageable, and nesting would add
// complexity without significant benefit.
type Config struct {
	// Seeds are the URLs the crawl starts from.
	Seeds []string

	// Delay is the minimum gap between outbound requests. Must be >= 0.
	Delay time.Duration

	// MaxPages is the page budget for one run. Must be >= 1.
	MaxPages int

	// MaxDepth limits link distance from the seeds.
	// Zero disables the depth limit.
	MaxDepth int

	// Timeout is the per-request fetch timeout.
	Timeout time.Duration

	// Workers is the fetch concurrency. Values above one enable the
	// worker pool with per-host politeness.
	Workers int

	// UserAgent is the User-Agent header for outbound requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// IgnorePatterns are URL path patterns to skip (glob syntax).
	IgnorePatterns []string

	// FollowPatterns restrict crawling to matching paths when set.
	FollowPatterns []string

	// UseDatabase enables persistence of crawled pages.
	UseDatabase bool

	// DBDir is the directory holding the SQLite database file.
	// Defaults to the XDG data directory.
	DBDir string

	// OutputFile is where the run result is exported. Empty disables export.
	OutputFile string

	// OutputFormat selects the exporter: txt, json, csv, or markdown.
	OutputFormat string

	// ListenAddr is the HTTP API listen address for serve mode.
	ListenAddr string

	// ConfigFilePath is the YAML config file path. If empty, the tool
	// searches for .textcrawler in the current and home directories.
	ConfigFilePath string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero, and the constructor documents them.
func NewConfig() *Config {
	return &Config{
		Delay:          DefaultDelay,
		MaxPages:       DefaultMaxPages,
		Timeout:        DefaultTimeout,
		Workers:        DefaultWorkers,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		IgnorePatterns: DefaultIgnorePatterns,
		ListenAddr:     DefaultListenAddr,
		DBDir:          XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for the crawler.
// On Linux: ~/.local/share/textcrawler
// On macOS: ~/Library/Application Support/textcrawler
// On Windows: %LOCALAPPDATA%\textcrawler
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the crawler.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing the first problem found.
// Configuration errors are the only fatal errors in the system: a run
// with an invalid config never begins.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if !validFormat(c.OutputFormat) {
		return ErrInvalidOutputFormat
	}
	return nil
}

// validFormat reports whether the export format name is known.
// An empty format is valid: it means no export was requested.
func validFormat(format string) bool {
	switch format {
	case "", "txt", "json", "csv", "markdown":
		return true
	default:
		return false
	}
}
