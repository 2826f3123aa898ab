package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the default cap on logged string attribute
// values. Long enough for any address or error message; short enough
// that a raw document cannot flood the log.
const DefaultMaxValueLen = 96

// CompactHandler wraps an slog.Handler and truncates oversized string
// attribute values before passing records on.
//
// Design decision: a handler wrapper rather than call-site discipline
// because it works with any underlying handler (text, JSON) and with
// every logging call in the codebase, including ones added later.
type CompactHandler struct {
	// handler is the underlying slog handler receiving compacted records.
	handler slog.Handler

	// maxValueLen is the cap applied to string attribute values.
	maxValueLen int
}

// CompactHandlerOption configures a CompactHandler.
type CompactHandlerOption func(*CompactHandler)

// WithMaxValueLen sets the string value cap. Values below 8 are ignored
// so the truncation marker always fits.
func WithMaxValueLen(n int) CompactHandlerOption {
	return func(h *CompactHandler) {
		if n >= 8 {
			h.maxValueLen = n
		}
	}
}

// NewCompactHandler creates a CompactHandler wrapping the given handler.
// If handler is nil, slog.Default's handler is used.
func NewCompactHandler(handler slog.Handler, opts ...CompactHandlerOption) *CompactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &CompactHandler{
		handler:     handler,
		maxValueLen: DefaultMaxValueLen,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Enabled delegates to the underlying handler.
func (h *CompactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle compacts the record's attributes and passes it on.
func (h *CompactHandler) Handle(ctx context.Context, r slog.Record) error {
	compacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		compacted.AddAttrs(h.compactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, compacted)
}

// WithAttrs returns a new handler with the given attributes added,
// compacted first.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	compacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		compacted[i] = h.compactAttr(a)
	}
	return &CompactHandler{handler: h.handler.WithAttrs(compacted), maxValueLen: h.maxValueLen}
}

// WithGroup returns a new handler with the given group name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return &CompactHandler{handler: h.handler.WithGroup(name), maxValueLen: h.maxValueLen}
}

// compactAttr truncates a single attribute, recursing into groups.
func (h *CompactHandler) compactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		compacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			compacted[i] = h.compactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(compacted...)}
	}

	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); len(s) > h.maxValueLen {
			return slog.String(a.Key, truncate(s, h.maxValueLen))
		}
	}

	return a
}

// truncate shortens s to roughly max bytes on a rune boundary and
// appends a marker with the elided byte count.
func truncate(s string, max int) string {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s…(+%d bytes)", s[:cut], len(s)-cut)
}

// NewLogger creates a text logger with compaction.
// verbose selects slog.LevelDebug; otherwise only warnings and errors.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewCompactHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a JSON logger with compaction, for structured
// log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewCompactHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
