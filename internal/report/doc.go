// Package report renders crawl sessions for human and machine
// consumption.
//
// Three formats are provided behind one Writer interface: a plain-text
// terminal summary, machine-readable JSON, and GitHub Flavored Markdown.
// The text and markdown writers additionally consolidate the per-node
// peer lists into a merged topology (one row per distinct public key)
// so the report answers "what does the network look like", not just
// "who answered".
package report
