package crawler

import (
	"strings"
	"testing"
)

// TestParserParse tests content extraction from HTML documents.
func TestParserParse(t *testing.T) {
	t.Parallel()

	t.Run("extracts title description text and links", func(t *testing.T) {
		t.Parallel()

		const page = `<!DOCTYPE html>
<html>
<head>
	<title>Welcome Page</title>
	<meta name="description" content="A friendly test page">
</head>
<body>
	<h1>Hello</h1>
	<p>Some readable   text here.</p>
	<a href="/about">About</a>
	<a href="https://other.example.org/docs">Docs</a>
</body>
</html>`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if content.Title != "Welcome Page" {
			t.Errorf("expected title 'Welcome Page', got %q", content.Title)
		}
		if content.Description != "A friendly test page" {
			t.Errorf("expected description, got %q", content.Description)
		}
		if !strings.Contains(content.Text, "Some readable text here.") {
			t.Errorf("expected normalized text, got %q", content.Text)
		}

		wantLinks := []string{
			"http://example.com/about",
			"https://other.example.org/docs",
		}
		if len(content.Links) != len(wantLinks) {
			t.Fatalf("expected %d links, got %v", len(wantLinks), content.Links)
		}
		for i, want := range wantLinks {
			if content.Links[i] != want {
				t.Errorf("link %d: expected %s, got %s", i, want, content.Links[i])
			}
		}
	})

	t.Run("excludes script style and noscript content", func(t *testing.T) {
		t.Parallel()

		const page = `<html><body>
<p>visible</p>
<script>var hidden = "scriptcontent";</script>
<style>.hidden { color: red; }</style>
<noscript>noscriptcontent</noscript>
</body></html>`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(content.Text, "visible") {
			t.Error("expected visible text to be extracted")
		}
		for _, hidden := range []string{"scriptcontent", "color: red", "noscriptcontent"} {
			if strings.Contains(content.Text, hidden) {
				t.Errorf("expected %q to be excluded from text", hidden)
			}
		}
	})

	t.Run("deduplicates links within page", func(t *testing.T) {
		t.Parallel()

		const page = `<html><body>
<a href="/page">first</a>
<a href="/page">second</a>
<a href="/page#section">fragment variant</a>
</body></html>`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(content.Links) != 1 {
			t.Errorf("expected 1 deduplicated link, got %v", content.Links)
		}
	})

	t.Run("skips non-navigational links", func(t *testing.T) {
		t.Parallel()

		const page = `<html><body>
<a href="javascript:void(0)">js</a>
<a href="mailto:someone@example.com">mail</a>
<a href="tel:+15551234">phone</a>
<a href="data:text/plain;base64,aGk=">data</a>
<a href="#">empty fragment</a>
<a href="/real">real</a>
</body></html>`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(content.Links) != 1 || content.Links[0] != "http://example.com/real" {
			t.Errorf("expected only the real link, got %v", content.Links)
		}
	})

	t.Run("relative links resolve against base", func(t *testing.T) {
		t.Parallel()

		const page = `<html><body><a href="sibling">s</a></body></html>`

		p, err := NewParser("http://example.com/docs/guide")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(content.Links) != 1 || content.Links[0] != "http://example.com/docs/sibling" {
			t.Errorf("expected resolved sibling link, got %v", content.Links)
		}
	})

	t.Run("malformed html degrades gracefully", func(t *testing.T) {
		t.Parallel()

		const page = `<html><body><p>unclosed paragraph
<div>nested <b>bold text
<a href="/link">still a link`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("expected repair, got error: %v", err)
		}

		if !strings.Contains(content.Text, "unclosed paragraph") {
			t.Error("expected text from malformed markup")
		}
		if len(content.Links) != 1 {
			t.Errorf("expected the link to survive repair, got %v", content.Links)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if content.Title != "" || content.Text != "" || len(content.Links) != 0 {
			t.Errorf("expected empty content, got %+v", content)
		}
	})

	t.Run("svg title does not replace document title", func(t *testing.T) {
		t.Parallel()

		const page = `<html>
<head><title>Real Page Title</title></head>
<body>
<svg viewBox="0 0 10 10"><title>menu icon</title><rect width="10" height="10"/></svg>
</body>
</html>`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if content.Title != "Real Page Title" {
			t.Errorf("expected document title, got %q", content.Title)
		}
	})

	t.Run("first title and description win", func(t *testing.T) {
		t.Parallel()

		const page = `<html>
<head>
	<title>First Title</title>
	<title>Second Title</title>
	<meta name="description" content="first description">
	<meta name="description" content="second description">
</head>
<body></body>
</html>`

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if content.Title != "First Title" {
			t.Errorf("expected first title, got %q", content.Title)
		}
		if content.Description != "first description" {
			t.Errorf("expected first description, got %q", content.Description)
		}
	})

	t.Run("whitespace collapsed to single spaces", func(t *testing.T) {
		t.Parallel()

		const page = "<html><body><p>a\n\n\tb   c</p></body></html>"

		p, err := NewParser("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}

		content, err := p.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if content.Text != "a b c" {
			t.Errorf("expected 'a b c', got %q", content.Text)
		}
	})
}
