package crawler

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Normalize canonicalizes a raw URL string for deduplication and storage.
//
// Normalization rules:
//   - scheme and host are lower-cased
//   - default ports are stripped (:80 for http, :443 for https)
//   - the fragment is removed
//   - "." and ".." path segments are collapsed
//   - an empty path becomes "/"
//
// Two URLs that normalize identically are treated as the same page.
// Returns ErrInvalidURL for unparseable URLs and non-HTTP schemes.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	return normalizeURL(u)
}

// NormalizeRef resolves href against base and normalizes the result.
// This is the path every discovered link takes before frontier admission.
func NormalizeRef(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, href, err)
	}
	return normalizeURL(base.ResolveReference(ref))
}

// normalizeURL applies the canonicalization rules to a parsed URL.
func normalizeURL(u *url.URL) (string, error) {
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.Host = strings.ToLower(u.Host)

	// Strip default ports
	host, port := u.Hostname(), u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}

	// Fragments never change the fetched content
	u.Fragment = ""

	// Collapse dot segments, preserving a trailing slash
	if u.Path == "" {
		u.Path = "/"
	} else {
		cleaned := path.Clean(u.Path)
		if strings.HasSuffix(u.Path, "/") && cleaned != "/" {
			cleaned += "/"
		}
		u.Path = cleaned
	}

	return u.String(), nil
}
