package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".textcrawler"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .textcrawler configuration file.
// Every field is optional; values present in the file are applied on top
// of the defaults and below explicit CLI flags.
type File struct {
	// Seeds are the URLs the crawl starts from.
	Seeds []string `yaml:"seeds,omitempty"`

	// Delay is the politeness delay, as a Go duration string ("1s", "500ms").
	Delay Duration `yaml:"delay,omitempty"`

	// MaxPages is the page budget for one run.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxDepth limits link distance from the seeds.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// Timeout is the per-request fetch timeout.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Workers is the fetch concurrency.
	Workers int `yaml:"workers,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// IgnorePatterns are URL path patterns to skip (glob syntax).
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict crawling to matching paths when set.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`

	// Database enables persistence of crawled pages.
	Database bool `yaml:"database,omitempty"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"dbDir,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML duration strings.
// yaml.v3 has no native duration support, so we parse "1s" style values
// ourselves.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadConfigFile loads crawl settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers decide
// whether that is fatal based on whether the path was explicitly requested.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the file's values onto an existing config.
// Zero values in the file leave the config untouched.
func (cf *File) Apply(c *Config) {
	if len(cf.Seeds) > 0 {
		c.Seeds = append(c.Seeds, cf.Seeds...)
	}
	if cf.Delay != 0 {
		c.Delay = time.Duration(cf.Delay)
	}
	if cf.MaxPages != 0 {
		c.MaxPages = cf.MaxPages
	}
	if cf.MaxDepth != 0 {
		c.MaxDepth = cf.MaxDepth
	}
	if cf.Timeout != 0 {
		c.Timeout = time.Duration(cf.Timeout)
	}
	if cf.Workers != 0 {
		c.Workers = cf.Workers
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if len(cf.IgnorePatterns) > 0 {
		c.IgnorePatterns = cf.IgnorePatterns
	}
	if len(cf.FollowPatterns) > 0 {
		c.FollowPatterns = cf.FollowPatterns
	}
	if cf.Database {
		c.UseDatabase = true
	}
	if cf.DBDir != "" {
		c.DBDir = cf.DBDir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .textcrawler in the current directory
// 3. Look for .textcrawler in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
