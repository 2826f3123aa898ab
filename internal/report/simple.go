package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Plain text with ASCII formatting rather than ANSI colors: it works in
// every terminal and pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose lists every merged peer and every failed address instead
	// of summary counts.
	verbose bool

	// maxRows caps listed peers/failures in non-verbose output.
	maxRows int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables full peer and failure listings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		maxRows:    20,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the session in human-readable format.
func (w *SimpleWriter) Write(session *model.CrawlSession) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, session)
	w.writeSummary(&sb, session)
	w.writeFailures(&sb, session)
	w.writePeers(&sb, session)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, session *model.CrawlSession) {
	fmt.Fprintf(sb, "Network Crawl Report\n")
	fmt.Fprintf(sb, "====================\n\n")
	fmt.Fprintf(sb, "Entry node:  %s\n", session.Entry)
	fmt.Fprintf(sb, "Started:     %s\n", session.Start.Format(time.RFC3339))
	fmt.Fprintf(sb, "Duration:    %s\n\n", session.Duration().Round(time.Millisecond))
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, session *model.CrawlSession) {
	peers := buildTopology(session)

	fmt.Fprintf(sb, "Summary\n")
	fmt.Fprintf(sb, "-------\n")
	fmt.Fprintf(sb, "Responding nodes:  %d\n", session.NodeCount())
	fmt.Fprintf(sb, "Failed fetches:    %d\n", session.ErrorCount())
	fmt.Fprintf(sb, "Distinct peers:    %d\n\n", len(peers))
}

func (w *SimpleWriter) writeFailures(sb *strings.Builder, session *model.CrawlSession) {
	if session.ErrorCount() == 0 {
		return
	}

	fmt.Fprintf(sb, "Failures\n")
	fmt.Fprintf(sb, "--------\n")
	for _, row := range errorBreakdown(session) {
		fmt.Fprintf(sb, "%-20s %d\n", row.Code, row.Count)
	}
	fmt.Fprintln(sb)

	addrs := sortedAddresses(session.Errors)
	shown := len(addrs)
	if !w.verbose && shown > w.maxRows {
		shown = w.maxRows
	}
	for _, addr := range addrs[:shown] {
		fmt.Fprintf(sb, "  %-24s %s\n", addr, session.Errors[addr])
	}
	if shown < len(addrs) {
		fmt.Fprintf(sb, "  ... and %d more (use --verbose)\n", len(addrs)-shown)
	}
	fmt.Fprintln(sb)
}

func (w *SimpleWriter) writePeers(sb *strings.Builder, session *model.CrawlSession) {
	peers := buildTopology(session)
	if len(peers) == 0 {
		return
	}

	fmt.Fprintf(sb, "Peers\n")
	fmt.Fprintf(sb, "-----\n")

	shown := len(peers)
	if !w.verbose && shown > w.maxRows {
		shown = w.maxRows
	}
	for _, peer := range peers[:shown] {
		ip := peer.IP()
		if ip == "" {
			ip = "-"
		}
		version := peer.Version()
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(sb, "  %s  %-18s %-24s views=%d\n", peer.PublicKey, ip, version, peer.Views)
	}
	if shown < len(peers) {
		fmt.Fprintf(sb, "  ... and %d more (use --verbose)\n", len(peers)-shown)
	}
}
