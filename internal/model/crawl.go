package model

import (
	"encoding/json"
	"strconv"
)

// RawResponse is the complete decoded /crawl document of one node, stored
// opaquely. The traversal engine only ever interprets overlay.active; the
// rest of the document is preserved byte-for-byte for the session report.
type RawResponse = json.RawMessage

// CrawlDocument is the result of one successful fetch: the raw document
// plus the parsed overlay peer list.
type CrawlDocument struct {
	// Raw is the full response body as received, after JSON validation.
	Raw RawResponse

	// Overlay is the parsed peer list.
	Overlay Overlay
}

// Overlay holds the peer list a node reports about itself.
type Overlay struct {
	// Active is the ordered list of currently connected peers.
	Active []PeerEntry `json:"active"`
}

// PeerEntry is one remote node's self-reported record of one of its
// peers. Beyond the typed members, Fields preserves every reported
// key/value pair for the peer-data merger, since rippled versions differ
// in which fields they emit.
type PeerEntry struct {
	// IP is the peer's address as reported. May carry an embedded port
	// and may be absent for outbound-only peers.
	IP string

	// Port is the peer's listening port, canonicalized to a string.
	// rippled emits it as a JSON number or string depending on version.
	Port string

	// PublicKey is the peer's node public key, usually base64-encoded.
	PublicKey string

	// Version is the peer's reported server version.
	Version string

	// Fields holds every key/value pair from the wire entry.
	Fields map[string]any
}

// UnmarshalJSON decodes a peer entry while keeping all reported fields.
func (p *PeerEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	p.Fields = fields
	p.IP, _ = fields["ip"].(string)
	p.Port = portString(fields["port"])
	p.PublicKey, _ = fields["public_key"].(string)
	p.Version, _ = fields["version"].(string)
	return nil
}

// portString canonicalizes the wire port value, which may be a JSON
// number or string.
func portString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	}
	return ""
}
