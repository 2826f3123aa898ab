// Package model defines the core data types shared across the crawler:
// canonical node addresses and public key identities, the decoded /crawl
// document, per-node error codes, and the crawl session report.
//
// All types in this package are plain values with no I/O. Normalization
// functions are deterministic so that two components observing the same
// remote peer always derive the same identity string.
package model
