package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/chriswill/rippled-network-crawler/internal/crawler"
	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// maxMarkdownRows caps per-table rows so reports for thousand-node
// networks stay reviewable. The JSON format carries the complete data.
const maxMarkdownRows = 100

// MarkdownWriter outputs sessions as GitHub Flavored Markdown, for
// documentation and sharing. The nao1215/markdown library gives
// type-safe tables, alerts, and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the session in Markdown format.
func (w *MarkdownWriter) Write(session *model.CrawlSession) (int, error) {
	md := markdown.NewMarkdown(w.output)

	peers := buildTopology(session)

	w.writeHeader(md, session, len(peers))
	w.writeFailures(md, session)
	w.writePeers(md, peers)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, session *model.CrawlSession, peerCount int) {
	md.H1("Network Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Entry node", "`" + session.Entry.String() + "`"},
			{"Started", session.Start.Format("2006-01-02 15:04:05 MST")},
			{"Duration", session.Duration().Round(time.Millisecond).String()},
			{"Responding nodes", strconv.Itoa(session.NodeCount())},
			{"Failed fetches", strconv.Itoa(session.ErrorCount())},
			{"Distinct peers", strconv.Itoa(peerCount)},
		},
	})
	md.PlainText("")

	switch {
	case session.NodeCount() == 0:
		md.Cautionf("No node answered; the network was not reachable from `%s`.", session.Entry)
	case session.ErrorCount() > session.NodeCount():
		md.Warningf(
			"More fetches failed (%d) than succeeded (%d); the topology below is likely incomplete.",
			session.ErrorCount(), session.NodeCount(),
		)
	case session.ErrorCount() == 0:
		md.Tip("Every discovered node answered.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, session *model.CrawlSession) {
	if session.ErrorCount() == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	breakdown := errorBreakdown(session)

	rows := make([][]string, 0, len(breakdown))
	for _, row := range breakdown {
		rows = append(rows, []string{row.Code.String(), strconv.Itoa(row.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Error code", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(breakdown) > 1 {
		w.writeFailureChart(md, breakdown)
	}

	addrs := sortedAddresses(session.Errors)
	shown := len(addrs)
	if shown > maxMarkdownRows {
		shown = maxMarkdownRows
	}
	detail := make([][]string, 0, shown)
	for _, addr := range addrs[:shown] {
		detail = append(detail, []string{"`" + addr.String() + "`", session.Errors[addr].String()})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Address", "Error code"},
		Rows:   detail,
	})
	if shown < len(addrs) {
		md.PlainTextf("... and %d more failed addresses (see the JSON report).", len(addrs)-shown)
	}
	md.PlainText("")
}

// writeFailureChart renders the failure distribution as a mermaid pie
// chart.
func (w *MarkdownWriter) writeFailureChart(md *markdown.Markdown, breakdown []codeCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Failure Distribution"),
		piechart.WithShowData(true),
	)

	for _, row := range breakdown {
		chart.LabelAndIntValue(row.Code.String(), uint64(row.Count))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writePeers(md *markdown.Markdown, peers []*crawler.MergedPeerRecord) {
	if len(peers) == 0 {
		return
	}

	md.H2("Peers")
	md.PlainText("")

	shown := len(peers)
	if shown > maxMarkdownRows {
		shown = maxMarkdownRows
	}
	rows := make([][]string, 0, shown)
	for _, peer := range peers[:shown] {
		ip := peer.IP()
		if ip == "" {
			ip = "-"
		}
		version := peer.Version()
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{
			"`" + peer.PublicKey.String() + "`",
			ip,
			version,
			strconv.Itoa(peer.Views),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Public key", "IP", "Version", "Views"},
		Rows:   rows,
	})
	if shown < len(peers) {
		md.PlainTextf("... and %d more peers (see the JSON report).", len(peers)-shown)
	}
}
