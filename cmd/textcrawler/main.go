// Package main provides the entry point for the textcrawler CLI.
//
// textcrawler fetches web pages, extracts their readable text, and
// stores the results in a local SQLite database or exported files.
//
// Usage:
//
//	textcrawler crawl <url> [<url>...]
//	textcrawler db stats
//	textcrawler serve
//
// See --help for all available options.
package main

// main is the entry point for textcrawler.
func main() {
	Execute()
}
