package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	intlog "github.com/tomasGonz67/cadooga-text-crawler/internal/log"
)

// NewRootCmd creates the root command for textcrawler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textcrawler",
		Short: "Polite web crawler that extracts readable text from pages",
		Long: `textcrawler fetches web pages breadth-first from one or more seed URLs,
extracts their readable text, titles, and descriptions, and stores the
results in a local SQLite database or exported files.

The crawler is polite by default: one request per second, a small page
budget, and duplicate URLs are never fetched twice.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewDBCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// The sanitizing handler masks credentials that can show up in crawled
// URLs and query strings.
func setupLogger(verbose bool) *slog.Logger {
	return intlog.NewSecureLogger(os.Stderr, verbose)
}
