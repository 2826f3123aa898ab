package report

import (
	"encoding/json"
	"sort"

	"github.com/chriswill/rippled-network-crawler/internal/crawler"
	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// buildTopology consolidates every peer view stored in the session into
// one record per public key. It re-reads the raw documents rather than
// reusing the controller's merger so that reports can be rendered from a
// session alone (e.g. one decoded back from JSON).
//
// Views with no public key, or an unparseable one, are skipped: without
// an identity they cannot be correlated across reporters.
func buildTopology(session *model.CrawlSession) []*crawler.MergedPeerRecord {
	merger := crawler.NewMerger()

	for _, raw := range sortedResponses(session) {
		var doc struct {
			Overlay model.Overlay `json:"overlay"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		for _, peer := range doc.Overlay.Active {
			if peer.PublicKey == "" {
				continue
			}
			id, err := model.NormalizePublicKey(peer.PublicKey)
			if err != nil {
				continue
			}
			merger.RecordView(id, peer.Fields)
		}
	}

	return merger.Records()
}

// sortedResponses returns the session's raw documents ordered by
// address, so report output is deterministic despite map iteration.
func sortedResponses(session *model.CrawlSession) []model.RawResponse {
	addrs := sortedAddresses(session.Data)
	out := make([]model.RawResponse, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, session.Data[addr])
	}
	return out
}

// sortedAddresses returns the keys of an address map in string order.
func sortedAddresses[V any](m map[model.Address]V) []model.Address {
	addrs := make([]model.Address, 0, len(m))
	for addr := range m {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// errorBreakdown counts the session's failures per error code, returning
// codes in descending count order (ties broken by code string).
func errorBreakdown(session *model.CrawlSession) []codeCount {
	counts := make(map[model.ErrorCode]int)
	for _, code := range session.Errors {
		counts[code]++
	}

	out := make([]codeCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, codeCount{Code: code, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// codeCount is one row of the failure breakdown.
type codeCount struct {
	Code  model.ErrorCode
	Count int
}
