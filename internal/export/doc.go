// Package export serializes crawl results into output files.
//
// Four formats are supported: plain text (txt), JSON, CSV, and Markdown.
// All writers implement the Writer interface and are selected by format
// name through New. MultiWriter fans a single result out to several
// destinations, which the CLI uses to write a file and a terminal summary
// in one pass.
package export
