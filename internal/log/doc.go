// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// The driven browser runs on a persistent profile that may hold a live,
// signed-in provider session. Cookie values, session identifiers, and
// tokens from that profile must never end up in log output, even in
// verbose mode, because logs are routinely pasted into bug reports.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request prepared",
//	    "cookie", "SID=abc123",  // sanitized to ***REDACTED***
//	    "url", "https://www.google.com/search",
//	)
//
//	slog.SetDefault(logger)
package log
