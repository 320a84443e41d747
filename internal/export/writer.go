package export

import (
	"fmt"
	"io"

	"github.com/tomasGonz67/cadooga-text-crawler/internal/model"
)

// Writer serializes a crawl result to an output destination.
// Implementations are pure functions over the result: they never mutate it.
//
// Design decision: We use an interface so the same crawl command can write
// to files, stdout, or buffers in tests with the same API, and so formats
// can be selected by name at runtime.
type Writer interface {
	// Write serializes the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// New returns the Writer for a format name: txt, json, csv, or markdown.
func New(format string, output io.Writer) (Writer, error) {
	switch format {
	case "txt":
		return NewTextWriter(output), nil
	case "json":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case "csv":
		return NewCSVWriter(output), nil
	case "markdown":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}

// MultiWriter writes a result to multiple Writers simultaneously.
// Useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Writer interface writes results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Returns the total bytes written; stops on the first error.
func (m *MultiWriter) Write(result *model.CrawlResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for result writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
