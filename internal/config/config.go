package config

import "time"

// Default configuration values. Where applicable they follow the rippled
// peer protocol's conventions.
const (
	// DefaultPeerPort is rippled's default overlay listening port. It is
	// substituted for entry nodes and discovered peers that carry no
	// explicit port.
	DefaultPeerPort uint16 = 51235

	// DefaultMaxInFlight is the global cap on concurrently outstanding
	// fetches during one traversal. 30 crawls a thousand-node network in
	// well under a minute without opening an unreasonable number of TLS
	// connections to strangers' machines.
	DefaultMaxInFlight = 30

	// DefaultTimeout bounds each individual fetch. Peer ports answer
	// /crawl quickly when reachable; most of the budget covers slow TLS
	// handshakes from distant or overloaded nodes.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the response body read per fetch.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultBatchSize is the number of concurrent traversals when
	// crawling several entry nodes. Each traversal already fans out to
	// MaxInFlight fetches, so this stays small.
	DefaultBatchSize = 3
)

// Config holds all options for one invocation of the crawler.
// It is populated from CLI flags and passed by dependency injection.
//
// Design decision: a single flat struct rather than nested sub-configs.
// The option count is manageable, and nesting would add indirection
// without benefit.
type Config struct {
	// EntryNodes are the nodes traversals start from. Each entry is
	// crawled independently with its own controller.
	EntryNodes []string

	// PeerPort is substituted when an entry node or discovered peer
	// reports no port.
	PeerPort uint16

	// MaxInFlight caps concurrently outstanding fetches per traversal.
	MaxInFlight int

	// Timeout bounds each individual fetch, not the whole traversal.
	// The traversal has no overall deadline; it ends when the frontier
	// is exhausted.
	Timeout time.Duration

	// MaxBodySize is the per-response read cap in bytes. Zero means the
	// default.
	MaxBodySize int64

	// ProxyAddress, when set, routes all fetches through a SOCKS5 proxy
	// at this "host:port" address.
	ProxyAddress string

	// BatchSize is the number of concurrent traversals when several
	// entry nodes are given.
	BatchSize int

	// Verbose enables slog.LevelDebug output; otherwise only warnings
	// and errors are logged.
	Verbose bool

	// JSONReport selects machine-readable JSON output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects GitHub Flavored Markdown output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, writes the report there instead of stdout.
	// Directories are created as needed.
	ReportFile string

	// ConfigFilePath is an explicit config file location. Empty means
	// search for .rippled-crawler in the current then home directory.
	ConfigFilePath string

	// NetworkName selects a named network profile from the config file.
	NetworkName string

	// Networks holds the profiles loaded from the config file.
	Networks *File
}

// NewConfig creates a Config with defaults filled in. Several defaults
// are non-zero, so relying on zero values would be wrong; this
// constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		PeerPort:    DefaultPeerPort,
		MaxInFlight: DefaultMaxInFlight,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
	}
}

// Validate checks the configuration, returning the first problem found.
// Called once after flag parsing, before any traversal begins.
func (c *Config) Validate() error {
	if len(c.EntryNodes) == 0 {
		return ErrNoEntryNode
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxInFlight <= 0 {
		return ErrInvalidMaxInFlight
	}
	if c.PeerPort == 0 {
		return ErrInvalidPeerPort
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
