package crawler

import "github.com/chriswill/rippled-network-crawler/internal/model"

// reporterRelativeFields are fields whose meaning depends on who reported
// them and which therefore cannot be merged across views. rippled's
// "type" field says "in" or "out" relative to the reporter.
var reporterRelativeFields = map[string]bool{
	"type": true,
}

// MergedPeerRecord is the consolidated view of one peer, folded from
// every view any node reported about it.
type MergedPeerRecord struct {
	// PublicKey identifies the peer across reporters.
	PublicKey model.PublicKeyID `json:"public_key"`

	// Fields holds the merged key/value pairs, first reported value per
	// key. When two reporters disagree about a field, the first one seen
	// wins silently; no conflict detection is performed. This mirrors
	// the fact that rippled nodes legitimately observe different
	// attributes (e.g. only the accepting side knows the listening port).
	Fields map[string]any `json:"fields"`

	// Views counts how many reporter views were folded into the record.
	Views int `json:"views"`
}

// IP returns the merged ip field, if any reporter supplied one.
func (r *MergedPeerRecord) IP() string {
	s, _ := r.Fields["ip"].(string)
	return s
}

// Version returns the merged version field, if any.
func (r *MergedPeerRecord) Version() string {
	s, _ := r.Fields["version"].(string)
	return s
}

// Merger folds multiple nodes' differing views of the same remote peer
// into one consolidated record per public key.
//
// Merger is not safe for concurrent use; the Controller serializes all
// access under its mutex.
type Merger struct {
	records map[model.PublicKeyID]*MergedPeerRecord
	order   []model.PublicKeyID
}

// NewMerger creates an empty merger.
func NewMerger() *Merger {
	return &Merger{records: make(map[model.PublicKeyID]*MergedPeerRecord)}
}

// RecordView folds one reporter's view of the peer identified by id into
// its consolidated record, creating the record on first sight.
//
// Every field except reporter-relative ones is set only if not already
// present (first-seen-wins). Absent (nil) values never overwrite
// anything.
func (m *Merger) RecordView(id model.PublicKeyID, view map[string]any) {
	rec := m.lookupOrCreate(id)
	rec.Views++
	for key, value := range view {
		if reporterRelativeFields[key] || value == nil {
			continue
		}
		if _, set := rec.Fields[key]; !set {
			rec.Fields[key] = value
		}
	}
}

// RecordDefaults fills still-unset fields of the peer's record with the
// given defaults. Unlike RecordView it does not count as a reporter view;
// it only backstops fields no reporter ever supplied.
func (m *Merger) RecordDefaults(id model.PublicKeyID, defaults map[string]any) {
	rec := m.lookupOrCreate(id)
	for key, value := range defaults {
		if reporterRelativeFields[key] || value == nil {
			continue
		}
		if _, set := rec.Fields[key]; !set {
			rec.Fields[key] = value
		}
	}
}

// Record returns the consolidated record for id, if any view of it has
// been recorded.
func (m *Merger) Record(id model.PublicKeyID) (*MergedPeerRecord, bool) {
	rec, ok := m.records[id]
	return rec, ok
}

// Records returns every consolidated record in first-seen order.
func (m *Merger) Records() []*MergedPeerRecord {
	out := make([]*MergedPeerRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out
}

// Len returns the number of distinct peers recorded.
func (m *Merger) Len() int {
	return len(m.records)
}

func (m *Merger) lookupOrCreate(id model.PublicKeyID) *MergedPeerRecord {
	rec, ok := m.records[id]
	if !ok {
		rec = &MergedPeerRecord{
			PublicKey: id,
			Fields:    make(map[string]any),
		}
		m.records[id] = rec
		m.order = append(m.order, id)
	}
	return rec
}
