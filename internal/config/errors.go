package config

import "errors"

// Configuration validation errors.
// Returned by Config.Validate so callers can match with errors.Is while
// still printing a clear message. Validation returns the first problem
// found; fixing one often makes the rest irrelevant.
var (
	// ErrNoEntryNode is returned when no entry node is specified either
	// as an argument or through a network profile.
	ErrNoEntryNode = errors.New("no entry node specified: provide a host[:port] or use --network")

	// ErrInvalidTimeout is returned when the per-fetch timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxInFlight is returned when the concurrency cap is not
	// positive. A cap of zero would admit no fetches at all.
	ErrInvalidMaxInFlight = errors.New("invalid max in-flight: must be positive")

	// ErrInvalidPeerPort is returned when the default peer port is zero.
	ErrInvalidPeerPort = errors.New("invalid peer port: must be non-zero")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
