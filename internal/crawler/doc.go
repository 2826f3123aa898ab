// Package crawler implements the traversal engine that discovers the
// topology of a rippled peer-to-peer network.
//
// # Architecture
//
// The package is built around three cooperating pieces:
//
//   - Queue: per-address state bookkeeping that enforces the
//     "enqueue once" invariant of the breadth-first traversal
//   - Controller: the BFS orchestrator that fetches /crawl documents
//     under a global in-flight cap and aggregates them into a session
//   - Merger: consolidates the differing views multiple nodes report
//     about the same peer into one record per public key
//
// A Controller instance drives exactly one traversal: it exclusively
// owns its Queue and CrawlSession, so concurrent traversals must use
// independent controllers. Batch wraps that pattern for crawling several
// independent entry nodes concurrently.
//
// # Error model
//
// Per-node fetch failures (timeouts, refused connections, undecodable
// documents) are recorded in the session's error map and never retried;
// the traversal continues on all other branches. Violations of the
// queue's state-machine contract are a different class entirely: they
// indicate a bug, surface as an internal fault wrapping ErrInvariant,
// and abort the traversal after in-flight fetches drain.
package crawler
