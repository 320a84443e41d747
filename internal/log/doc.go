// Package log provides secure logging with automatic sanitization of
// sensitive information, built on top of the standard slog package.
//
// A crawler's logs carry URLs, headers, and query strings from arbitrary
// pages, which is an easy path for credentials to end up in log files.
// The SecureHandler masks attribute values that look like secrets
// (authorization headers, session cookies, tokens, API keys) before the
// underlying handler sees them.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("fetched",
//	    "url", pageURL,
//	    "cookie", "session=abc123", // masked in output
//	)
//	slog.SetDefault(logger)
package log
