package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// CSVWriter outputs results as delimited text, one row per page.
// Raw HTML is deliberately excluded: multi-megabyte cells make the file
// useless in spreadsheet tools, and the JSON export carries the full data.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// csvHeader is the column layout of the exported file.
var csvHeader = []string{
	"url", "title", "description", "text_content", "status_code", "content_length",
}

// Write outputs the result in CSV format.
func (w *CSVWriter) Write(result *model.CrawlResult) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, page := range result.Pages {
		record := []string{
			page.URL,
			page.Title,
			page.Description,
			page.TextContent,
			strconv.Itoa(page.StatusCode),
			strconv.Itoa(page.ContentLength),
		}
		if err := cw.Write(record); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter tracks bytes written so Write can report them:
// encoding/csv does not expose a byte count itself.
type countingWriter struct {
	w io.Writer
	n int
}

// Write forwards to the wrapped writer and accumulates the byte count.
func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}
