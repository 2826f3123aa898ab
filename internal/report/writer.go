package report

import (
	"io"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// Writer renders one crawl session to a configured destination.
//
// Design decision: an interface rather than format flags on one type,
// so sessions can be written to files, stdout, or network connections
// in any format with the same API.
type Writer interface {
	// Write outputs the session report.
	// Returns the number of bytes written and any error encountered.
	Write(session *model.CrawlSession) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, e.g. terminal
// and file. It is a separate type rather than io.MultiWriter because our
// Writer renders sessions, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the session to all configured Writers, stopping on the
// first error. Returns the total bytes written.
func (m *MultiWriter) Write(session *model.CrawlSession) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(session)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
