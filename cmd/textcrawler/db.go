package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/config"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/database"
	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// NewDBCmd creates the db command group for store management.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the crawled page database",
		Long: `Manage the SQLite database of crawled pages.

The database lives in the XDG data directory by default
(~/.local/share/textcrawler on Linux). Use --db-dir to point all
subcommands at a different location.`,
	}

	cmd.PersistentFlags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBStatsCmd())
	cmd.AddCommand(newDBListCmd())
	cmd.AddCommand(newDBSearchCmd())
	cmd.AddCommand(newDBClearCmd())

	return cmd
}

// openStore opens the database for a db subcommand.
// create controls whether a missing database file is an error.
func openStore(cmd *cobra.Command, create bool) (*database.CrawlDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = create

	db, err := database.Open(dbDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newDBInitCmd creates the db init subcommand.
func newDBInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the database",
		Long:  `Initialize creates the database file and its tables if they do not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Initializing database...")

			db, err := openStore(cmd, true)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized: %s\n", db.Path())
			return nil
		},
	}
}

// newDBStatsCmd creates the db stats subcommand.
func newDBStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openStore(cmd, false)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := db.GetStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Database Statistics ===")
			fmt.Fprintf(out, "Total pages: %d\n", stats.TotalPages)
			fmt.Fprintf(out, "Total content length: %d bytes\n", stats.TotalContentLength)
			fmt.Fprintf(out, "Average content length: %.2f bytes\n", stats.AverageContentLength)
			if !stats.LastCrawledAt.IsZero() {
				fmt.Fprintf(out, "Last crawled: %s\n", stats.LastCrawledAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

// newDBListCmd creates the db list subcommand.
func newDBListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently crawled pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			offset, err := cmd.Flags().GetInt("offset")
			if err != nil {
				return err
			}

			db, err := openStore(cmd, false)
			if err != nil {
				return err
			}
			defer db.Close()

			pages, err := db.ListPages(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list pages: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== Recent %d Pages ===\n", len(pages))
			printPages(out, pages)
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of pages to show")
	cmd.Flags().Int("offset", 0, "Number of pages to skip")

	return cmd
}

// newDBSearchCmd creates the db search subcommand.
func newDBSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search pages by URL, title, or text content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd, false)
			if err != nil {
				return err
			}
			defer db.Close()

			pages, err := db.SearchPages(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== Search Results for %q ===\n", args[0])
			printPages(out, pages)
			return nil
		},
	}
}

// newDBClearCmd creates the db clear subcommand.
func newDBClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all crawled pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}

			if !force {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to clear all data? (yes/no): ")
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
					return nil
				}
			}

			db, err := openStore(cmd, false)
			if err != nil {
				return err
			}
			defer db.Close()

			deleted, err := db.ClearPages(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d pages.\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	return cmd
}

// pageTitleWidth caps the title column in listing output.
const pageTitleWidth = 100

// printPages prints page records in the block format shared by
// list and search.
func printPages(out io.Writer, pages []*model.CrawledPage) {
	for _, page := range pages {
		title := page.Title
		if len(title) > pageTitleWidth {
			title = title[:pageTitleWidth] + "..."
		}

		fmt.Fprintf(out, "ID: %d\n", page.ID)
		fmt.Fprintf(out, "URL: %s\n", page.URL)
		fmt.Fprintf(out, "Title: %s\n", title)
		fmt.Fprintf(out, "Created: %s\n", page.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Content length: %d bytes\n", page.ContentLength)
		fmt.Fprintln(out, strings.Repeat("-", 50))
	}
}
