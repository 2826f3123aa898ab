package model

// ErrorCode classifies why a single node fetch failed. Codes are recorded
// in the session's error map keyed by address; a fetch is never retried.
//
// Invariant violations inside the traversal engine are NOT error codes.
// They indicate a bug, surface as a distinct internal fault, and never
// appear in the session's error map.
type ErrorCode string

const (
	// ErrorCodeTimeout indicates the fetch exceeded the per-request timeout.
	ErrorCodeTimeout ErrorCode = "timeout"

	// ErrorCodeRefused indicates the TCP connection was refused.
	ErrorCodeRefused ErrorCode = "connection-refused"

	// ErrorCodeTLS indicates the TLS handshake failed.
	ErrorCodeTLS ErrorCode = "tls-handshake"

	// ErrorCodeHTTPStatus indicates the node answered with a non-200 status.
	ErrorCodeHTTPStatus ErrorCode = "http-status"

	// ErrorCodeDecode indicates the response body was not a valid crawl
	// document (truncated, not JSON, or oversized).
	ErrorCodeDecode ErrorCode = "decode"

	// ErrorCodeCancelled indicates the fetch was abandoned because the
	// surrounding context was cancelled.
	ErrorCodeCancelled ErrorCode = "cancelled"

	// ErrorCodeNetwork covers all other transport-level failures
	// (unreachable host, DNS failure, reset connections).
	ErrorCodeNetwork ErrorCode = "network"
)

// String returns the code's wire representation.
func (c ErrorCode) String() string {
	return string(c)
}
