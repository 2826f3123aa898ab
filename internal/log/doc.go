// Package log provides slog loggers tuned for traversal output.
//
// Crawl logging routinely carries values that are enormous relative to
// their diagnostic worth: base64 node keys, whole /crawl documents,
// hundred-entry peer lists. CompactHandler wraps any slog.Handler and
// truncates oversized string attributes so a verbose crawl stays
// readable, while short values (addresses, error codes, counts) pass
// through untouched.
package log
