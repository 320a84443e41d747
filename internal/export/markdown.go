package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// MarkdownWriter outputs results in Markdown format, designed for
// documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation because it provides type-safe tables, lists, and headings
// without manual string assembly.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format: a summary table followed by
// one table of metadata per crawled page.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeSummary(md, result)
	w.writePages(md, result)

	return len(md.String()), md.Build()
}

// writeSummary writes the run header and counter table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CrawlResult) {
	md.H1("Crawl Report")
	md.PlainText("")

	summary := result.Summary()
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
			{"Pages Fetched", strconv.Itoa(summary.PagesFetched)},
			{"Pages Failed", strconv.Itoa(summary.PagesFailed)},
			{"Duplicates Skipped", strconv.Itoa(summary.PagesSkipped)},
			{"Pages Unsaved", strconv.Itoa(summary.PagesUnsaved)},
		},
	})
	md.PlainText("")
}

// writePages writes one section per page with its extracted metadata.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.CrawlResult) {
	if len(result.Pages) == 0 {
		return
	}

	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Pages))
	for _, page := range result.Pages {
		rows = append(rows, []string{
			fmt.Sprintf("`%s`", page.URL),
			page.Title,
			strconv.Itoa(page.StatusCode),
			strconv.Itoa(page.ContentLength),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Status", "Bytes"},
		Rows:   rows,
	})
	md.PlainText("")
}
