package model

import (
	"strings"
	"testing"
)

// TestCrawledPageTruncate tests content size cap enforcement.
func TestCrawledPageTruncate(t *testing.T) {
	t.Parallel()

	t.Run("truncates oversized fields", func(t *testing.T) {
		t.Parallel()

		page := &CrawledPage{
			Title:       strings.Repeat("t", MaxTitleLength+100),
			TextContent: strings.Repeat("x", MaxTextSize+1),
			HTMLContent: strings.Repeat("h", MaxHTMLSize+1),
		}
		page.Truncate()

		if len(page.Title) != MaxTitleLength {
			t.Errorf("expected title length %d, got %d", MaxTitleLength, len(page.Title))
		}
		if len(page.TextContent) != MaxTextSize {
			t.Errorf("expected text length %d, got %d", MaxTextSize, len(page.TextContent))
		}
		if len(page.HTMLContent) != MaxHTMLSize {
			t.Errorf("expected html length %d, got %d", MaxHTMLSize, len(page.HTMLContent))
		}
	})

	t.Run("leaves small fields untouched", func(t *testing.T) {
		t.Parallel()

		page := &CrawledPage{
			Title:       "Short Title",
			TextContent: "short text",
			HTMLContent: "<html></html>",
		}
		page.Truncate()

		if page.Title != "Short Title" {
			t.Errorf("title was modified: %q", page.Title)
		}
		if page.TextContent != "short text" {
			t.Errorf("text was modified: %q", page.TextContent)
		}
	})
}

// TestCrawledPageFetched tests the fetch sentinel convention.
func TestCrawledPageFetched(t *testing.T) {
	t.Parallel()

	fetched := &CrawledPage{StatusCode: 200}
	if !fetched.Fetched() {
		t.Error("page with status 200 should report as fetched")
	}

	failed := &CrawledPage{StatusCode: 0}
	if failed.Fetched() {
		t.Error("page with status 0 should not report as fetched")
	}
}

// TestUpsertOutcomeString tests outcome names.
func TestUpsertOutcomeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome UpsertOutcome
		want    string
	}{
		{OutcomeInserted, "inserted"},
		{OutcomeUpdated, "updated"},
		{UpsertOutcome(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("UpsertOutcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
