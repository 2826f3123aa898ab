package model

import "time"

// CrawlSession is the aggregate result of one traversal: which address
// answered with which document, which failed with which code, and when
// the traversal ran. It is the system's sole output artifact.
//
// A session is created when the traversal enters the network, mutated by
// exactly one controller for its lifetime, and immutable once End is set.
type CrawlSession struct {
	// Start is when the traversal entered the network.
	Start time.Time `json:"start"`

	// End is when the last outstanding fetch resolved. Zero while the
	// traversal is still running.
	End time.Time `json:"end"`

	// Entry is the normalized address the traversal started from.
	Entry Address `json:"entry"`

	// Data maps each successfully fetched address to its raw document.
	Data map[Address]RawResponse `json:"data"`

	// Errors maps each failed address to its failure classification.
	Errors map[Address]ErrorCode `json:"errors"`
}

// NewCrawlSession creates a session for the given entry address with the
// start timestamp set to now.
func NewCrawlSession(entry Address) *CrawlSession {
	return &CrawlSession{
		Start:  time.Now(),
		Entry:  entry,
		Data:   make(map[Address]RawResponse),
		Errors: make(map[Address]ErrorCode),
	}
}

// Finalize stamps the end of the traversal.
func (s *CrawlSession) Finalize() {
	s.End = time.Now()
}

// Duration returns how long the traversal ran. While the session is still
// open it returns the time elapsed since Start.
func (s *CrawlSession) Duration() time.Duration {
	if s.End.IsZero() {
		return time.Since(s.Start)
	}
	return s.End.Sub(s.Start)
}

// NodeCount returns the number of nodes that answered.
func (s *CrawlSession) NodeCount() int {
	return len(s.Data)
}

// ErrorCount returns the number of nodes whose fetch failed.
func (s *CrawlSession) ErrorCount() int {
	return len(s.Errors)
}
