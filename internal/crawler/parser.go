package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts structured content from HTML documents.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles the malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//  4. Standard library extension, well-maintained
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative links.
	baseURL *url.URL
}

// Content holds everything extracted from a single HTML page.
//
// Design decision: We return one result struct from a single parsing pass
// rather than exposing per-field methods because related data is collected
// together and the caller chooses what to use.
type Content struct {
	// Title is the text of the <title> element, or empty.
	Title string

	// Description is the content attribute of the meta description
	// tag if present, else empty.
	Description string

	// Text is the concatenation of visible text nodes with script and
	// style content excluded, whitespace-normalized.
	Text string

	// Links contains every hyperlink target resolved to an absolute
	// canonical URL, deduplicated within the page, in document order.
	Links []string
}

// NewParser creates a Parser with the given base URL for link resolution.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse extracts title, description, visible text, and links from HTML.
//
// Malformed HTML never aborts the page: html.Parse repairs what it can,
// and the result carries best-effort fields for whatever was recovered.
func (p *Parser) Parse(content io.Reader) (*Content, error) {
	doc, err := html.Parse(content)
	if err != nil {
		// html.Parse only fails on reader errors; return what we have.
		return &Content{}, err
	}

	result := &Content{Links: make([]string, 0)}
	seen := make(map[string]bool)

	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				// Non-visible content contributes nothing
				return
			case "title":
				// First document title wins. Foreign content can carry its
				// own <title> elements (an inline SVG labels shapes with
				// them), so namespaced nodes never set the page title.
				if result.Title == "" && n.Namespace == "" &&
					n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if result.Description == "" &&
					strings.EqualFold(getAttr(n, "name"), "description") {
					result.Description = strings.TrimSpace(getAttr(n, "content"))
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if link := p.resolveLink(href); link != "" && !seen[link] {
						seen[link] = true
						result.Links = append(result.Links, link)
					}
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	result.Text = normalizeWhitespace(text.String())
	return result, nil
}

// resolveLink resolves an href against the base URL and normalizes it.
// Returns empty for non-navigational or invalid targets.
func (p *Parser) resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	link, err := NormalizeRef(p.baseURL, href)
	if err != nil {
		return ""
	}
	return link
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
