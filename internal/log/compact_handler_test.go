package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestCompactHandlerTruncatesLongValues verifies that oversized string
// attributes are cut with a marker while short ones pass through.
func TestCompactHandlerTruncatesLongValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(
		slog.NewTextHandler(&buf, nil),
		WithMaxValueLen(16),
	))

	long := strings.Repeat("a", 64)
	logger.Info("fetch failed", "body", long, "addr", "10.0.0.1:51235")

	out := buf.String()
	if strings.Contains(out, long) {
		t.Error("long value was not truncated")
	}
	if !strings.Contains(out, "(+48 bytes)") {
		t.Errorf("output missing elision marker: %s", out)
	}
	if !strings.Contains(out, "10.0.0.1:51235") {
		t.Errorf("short value was altered: %s", out)
	}
}

// TestCompactHandlerRuneBoundary verifies that truncation never splits a
// multi-byte rune.
func TestCompactHandlerRuneBoundary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(
		slog.NewTextHandler(&buf, nil),
		WithMaxValueLen(9),
	))

	// Three-byte runes, 24 bytes total. A cut at 9 lands on a rune
	// boundary and keeps exactly three runes.
	logger.Info("msg", "value", strings.Repeat("日", 8))

	out := buf.String()
	if !strings.Contains(out, "日日日…(+15 bytes)") {
		t.Errorf("unexpected truncation: %s", out)
	}
	if strings.Contains(out, `\xe6`) {
		t.Errorf("truncation split a rune: %s", out)
	}
}

// TestCompactHandlerGroups verifies recursion into grouped attributes.
func TestCompactHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(
		slog.NewTextHandler(&buf, nil),
		WithMaxValueLen(16),
	))

	logger.Info("msg", slog.Group("peer",
		slog.String("key", strings.Repeat("k", 64)),
		slog.String("ip", "10.0.0.1"),
	))

	out := buf.String()
	if strings.Contains(out, strings.Repeat("k", 64)) {
		t.Error("grouped long value was not truncated")
	}
	if !strings.Contains(out, "10.0.0.1") {
		t.Errorf("grouped short value was altered: %s", out)
	}
}

// TestCompactHandlerWithAttrs verifies that pre-bound attributes are
// compacted too.
func TestCompactHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(
		slog.NewTextHandler(&buf, nil),
		WithMaxValueLen(16),
	))

	bound := logger.With("document", strings.Repeat("d", 64))
	bound.Info("msg")

	if strings.Contains(buf.String(), strings.Repeat("d", 64)) {
		t.Error("bound long value was not truncated")
	}
}

// TestWithMaxValueLenIgnoresTinyCaps verifies the lower bound on the cap.
func TestWithMaxValueLenIgnoresTinyCaps(t *testing.T) {
	t.Parallel()

	h := NewCompactHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), WithMaxValueLen(2))
	if h.maxValueLen != DefaultMaxValueLen {
		t.Errorf("maxValueLen = %d, want default %d", h.maxValueLen, DefaultMaxValueLen)
	}
}

// TestNewLoggerLevels verifies the verbose switch.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("quiet drops debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Debug("debug line")
		logger.Info("info line")
		logger.Warn("warn line")

		out := buf.String()
		if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
			t.Errorf("quiet logger emitted sub-warning output: %s", out)
		}
		if !strings.Contains(out, "warn line") {
			t.Errorf("quiet logger dropped a warning: %s", out)
		}
	})

	t.Run("verbose keeps debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Debug("debug line")

		if !strings.Contains(buf.String(), "debug line") {
			t.Errorf("verbose logger dropped debug output: %s", buf.String())
		}
	})

	t.Run("json logger emits json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, true)
		logger.Debug("debug line")

		if !strings.Contains(buf.String(), `"msg":"debug line"`) {
			t.Errorf("unexpected json output: %s", buf.String())
		}
	})
}
