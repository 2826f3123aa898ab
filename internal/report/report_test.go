package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// testSession builds a finished two-node session: the entry answered and
// reported two peers, one further node answered, one fetch timed out.
func testSession(t *testing.T) *model.CrawlSession {
	t.Helper()

	session := model.NewCrawlSession("10.0.0.1:51235")
	session.Start = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	session.End = session.Start.Add(4200 * time.Millisecond)

	session.Data["10.0.0.1:51235"] = model.RawResponse(`{"overlay":{"active":[
		{"ip":"10.0.0.2","port":51235,"public_key":"AgABAgMEBQYHCAkKCwwNDg8QERITFBUWFxgZGhscHR4f","version":"rippled-1.9.4","type":"out"},
		{"ip":"10.0.0.3","public_key":"A6urq6urq6urq6urq6urq6urq6urq6urq6urq6urq6ur"}
	]}}`)
	session.Data["10.0.0.2:51235"] = model.RawResponse(`{"overlay":{"active":[
		{"ip":"10.0.0.3","public_key":"A6urq6urq6urq6urq6urq6urq6urq6urq6urq6urq6ur","version":"rippled-1.9.1"}
	]}}`)
	session.Errors["10.0.0.3:51235"] = model.ErrorCodeTimeout

	return session
}

// TestBuildTopology verifies consolidation of peer views from the raw
// session documents.
func TestBuildTopology(t *testing.T) {
	t.Parallel()

	peers := buildTopology(testSession(t))

	if len(peers) != 2 {
		t.Fatalf("buildTopology() returned %d peers, want 2", len(peers))
	}

	var views int
	for _, peer := range peers {
		views += peer.Views
		if _, set := peer.Fields["type"]; set {
			t.Error("reporter-relative field survived consolidation")
		}
	}
	// Three views total: one of the first peer, two of the second.
	if views != 3 {
		t.Errorf("total views = %d, want 3", views)
	}
}

// TestBuildTopologySkipsUnusable verifies that views without a usable
// public key are dropped rather than failing the report.
func TestBuildTopologySkipsUnusable(t *testing.T) {
	t.Parallel()

	session := model.NewCrawlSession("10.0.0.1:51235")
	session.Data["10.0.0.1:51235"] = model.RawResponse(`{"overlay":{"active":[
		{"ip":"10.0.0.2"},
		{"ip":"10.0.0.3","public_key":"!!not base64!!"}
	]}}`)
	session.Data["10.0.0.4:51235"] = model.RawResponse(`not json at all`)
	session.Finalize()

	if peers := buildTopology(session); len(peers) != 0 {
		t.Errorf("buildTopology() returned %d peers, want 0", len(peers))
	}
}

// TestErrorBreakdown verifies per-code counting and ordering.
func TestErrorBreakdown(t *testing.T) {
	t.Parallel()

	session := model.NewCrawlSession("10.0.0.1:51235")
	session.Errors["10.0.0.2:51235"] = model.ErrorCodeTimeout
	session.Errors["10.0.0.3:51235"] = model.ErrorCodeTimeout
	session.Errors["10.0.0.4:51235"] = model.ErrorCodeRefused
	session.Finalize()

	breakdown := errorBreakdown(session)
	if len(breakdown) != 2 {
		t.Fatalf("errorBreakdown() returned %d rows, want 2", len(breakdown))
	}
	if breakdown[0].Code != model.ErrorCodeTimeout || breakdown[0].Count != 2 {
		t.Errorf("top row = %+v, want timeout x2", breakdown[0])
	}
	if breakdown[1].Code != model.ErrorCodeRefused || breakdown[1].Count != 1 {
		t.Errorf("second row = %+v, want connection-refused x1", breakdown[1])
	}
}

// TestSimpleWriter verifies the terminal report contents.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewSimpleWriter(&buf).Write(testSession(t))
	if err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() reported %d bytes, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"Network Crawl Report",
		"Entry node:  10.0.0.1:51235",
		"Responding nodes:  2",
		"Failed fetches:    1",
		"Distinct peers:    2",
		"timeout",
		"10.0.0.3:51235",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

// TestSimpleWriterTruncatesListings verifies the non-verbose row cap.
func TestSimpleWriterTruncatesListings(t *testing.T) {
	t.Parallel()

	session := model.NewCrawlSession("10.0.0.1:51235")
	for i := 0; i < 30; i++ {
		addr := model.NormalizeAddress("10.0.1."+strconv.Itoa(i), "", 51235)
		session.Errors[addr] = model.ErrorCodeRefused
	}
	session.Finalize()

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).Write(session); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "and 10 more") {
		t.Errorf("expected truncation note:\n%s", buf.String())
	}

	buf.Reset()
	if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(session); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if strings.Contains(buf.String(), "more (use --verbose)") {
		t.Errorf("verbose output still truncated:\n%s", buf.String())
	}
}

// TestJSONWriter verifies that the JSON report decodes back to the
// session it was written from.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	session := testSession(t)

	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf).Write(session)
	if err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() reported %d bytes, wrote %d", n, buf.Len())
	}

	var decoded model.CrawlSession
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Entry != session.Entry {
		t.Errorf("decoded entry = %q, want %q", decoded.Entry, session.Entry)
	}
	if len(decoded.Data) != 2 || len(decoded.Errors) != 1 {
		t.Errorf("decoded session lost data: %d documents, %d errors", len(decoded.Data), len(decoded.Errors))
	}

	// A report rendered from the decoded session must see the same
	// topology; this is what lets stored JSON reports be re-rendered.
	if peers := buildTopology(&decoded); len(peers) != 2 {
		t.Errorf("re-decoded session yields %d peers, want 2", len(peers))
	}
}

// TestFullJSONWriter verifies the metadata wrapper.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "2.0.0", WithPrettyPrint()).Write(testSession(t)); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.Version != "2.0.0" {
		t.Errorf("version = %q, want %q", report.Version, "2.0.0")
	}
	if report.PeerCount != 2 {
		t.Errorf("peer count = %d, want 2", report.PeerCount)
	}
	if report.Session == nil || report.Session.NodeCount() != 2 {
		t.Error("wrapped session incomplete")
	}
}

// TestMarkdownWriter verifies the markdown report structure.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(testSession(t)); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Network Crawl Report",
		"## Failures",
		"## Peers",
		"`10.0.0.1:51235`",
		"timeout",
		"rippled-1.9.4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}
}

// TestMarkdownWriterAlerts verifies the health callout per session shape.
func TestMarkdownWriterAlerts(t *testing.T) {
	t.Parallel()

	t.Run("unreachable network", func(t *testing.T) {
		t.Parallel()

		session := model.NewCrawlSession("10.0.0.1:51235")
		session.Errors["10.0.0.1:51235"] = model.ErrorCodeRefused
		session.Finalize()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(session); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if !strings.Contains(buf.String(), "No node answered") {
			t.Errorf("expected unreachable callout:\n%s", buf.String())
		}
	})

	t.Run("clean crawl", func(t *testing.T) {
		t.Parallel()

		session := model.NewCrawlSession("10.0.0.1:51235")
		session.Data["10.0.0.1:51235"] = model.RawResponse(`{"overlay":{"active":[]}}`)
		session.Finalize()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(session); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if !strings.Contains(buf.String(), "Every discovered node answered") {
			t.Errorf("expected clean-crawl callout:\n%s", buf.String())
		}
	})
}

// TestMultiWriter verifies fan-out and byte accounting.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(testSession(t))
	if err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("Write() reported %d bytes, wrote %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("one of the writers received no output")
	}
}
