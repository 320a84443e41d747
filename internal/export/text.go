package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// textPreviewLength bounds the extracted-text excerpt per page in the
// plain-text format. Full text is available in the JSON export.
const textPreviewLength = 500

// TextWriter outputs one human-readable block per page, separated by
// rulers. This is the quick-look format for eyeballing a run's output.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in plain-text block format.
func (w *TextWriter) Write(result *model.CrawlResult) (int, error) {
	var b strings.Builder

	for _, page := range result.Pages {
		fmt.Fprintf(&b, "URL: %s\n", page.URL)
		fmt.Fprintf(&b, "Title: %s\n", page.Title)
		fmt.Fprintf(&b, "Description: %s\n", page.Description)
		fmt.Fprintf(&b, "Text: %s\n", previewText(page.TextContent))
		b.WriteString(strings.Repeat("-", 80))
		b.WriteString("\n\n")
	}

	summary := result.Summary()
	fmt.Fprintf(&b, "Pages fetched: %d, failed: %d, skipped: %d\n",
		summary.PagesFetched, summary.PagesFailed, summary.PagesSkipped)

	return w.output.Write([]byte(b.String()))
}

// previewText truncates extracted text to the preview length.
func previewText(text string) string {
	if len(text) <= textPreviewLength {
		return text
	}
	return text[:textPreviewLength] + "..."
}
