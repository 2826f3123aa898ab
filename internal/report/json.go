package report

import (
	"encoding/json"
	"io"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// JSONWriter outputs sessions in JSON format for tool integration.
// Standard encoding/json is sufficient here; the session's raw documents
// are already json.RawMessage and re-serialize byte-for-byte.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// indentPrefix and indentString configure the indentation.
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON with the given prefix and
// per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the session in JSON format.
func (w *JSONWriter) Write(session *model.CrawlSession) (int, error) {
	return w.writeJSON(session)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a session with generator metadata and the merged
// topology. A wrapper rather than fields on CrawlSession keeps
// output-only concerns out of the core data structure.
type JSONReport struct {
	// Version is the crawler version that produced the report.
	Version string `json:"version"`

	// Session is the full session report.
	Session *model.CrawlSession `json:"session"`

	// PeerCount is the number of distinct peers across all views.
	PeerCount int `json:"peer_count"`
}

// FullJSONWriter outputs sessions wrapped with metadata.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for metadata-wrapped reports.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the session wrapped with metadata.
func (w *FullJSONWriter) Write(session *model.CrawlSession) (int, error) {
	wrapped := &JSONReport{
		Version:   w.version,
		Session:   session,
		PeerCount: len(buildTopology(session)),
	}
	return w.writeJSON(wrapped)
}
