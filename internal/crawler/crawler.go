package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// Default traversal parameters.
const (
	// DefaultMaxInFlight caps the number of concurrently outstanding
	// fetches. 30 keeps a network-wide crawl fast without opening an
	// unbounded number of TLS connections; there is no per-destination
	// limit, only this global cap.
	DefaultMaxInFlight = 30

	// DefaultPeerPort is rippled's default overlay listening port,
	// substituted when a discovered peer reports no port of its own.
	DefaultPeerPort uint16 = 51235
)

// Fetcher performs one fetch-and-decode of a node's /crawl document.
// It is the traversal's only network boundary.
//
// The implementation must bound each fetch's duration itself and resolve
// with an error rather than hang: the controller has no independent
// per-fetch cancellation, so a hanging fetch would stall termination.
type Fetcher interface {
	Fetch(ctx context.Context, addr model.Address) (*model.CrawlDocument, error)
}

// errorCoder is implemented by fetch errors that carry a typed
// classification. Errors without one are recorded as generic network
// failures.
type errorCoder interface {
	ErrorCode() model.ErrorCode
}

// Event describes one resolved fetch, for optional progress reporting.
type Event struct {
	// Addr is the address whose fetch resolved.
	Addr model.Address

	// Hop is the traversal depth at which the address was admitted.
	// Tracked for diagnostics only; it does not bound the traversal.
	Hop int

	// Peers is the number of peers the node reported (success only).
	Peers int

	// NewlyQueued is how many of those peers were first discoveries.
	NewlyQueued int

	// Code is the failure classification, empty on success.
	Code model.ErrorCode
}

// Controller drives one bounded-concurrency breadth-first traversal of
// the overlay network. It exclusively owns its queue and session; run a
// second traversal with a second controller.
//
// All bookkeeping (queue mutation, map updates, admission decisions)
// happens under one mutex, so completions observe a consistent snapshot
// no matter how fetches interleave. Only the fetches themselves run
// concurrently.
type Controller struct {
	fetcher     Fetcher
	maxInFlight int
	defaultPort uint16
	logger      *slog.Logger
	observer    func(Event)

	mu        sync.Mutex
	queue     *Queue
	merger    *Merger
	session   *model.CrawlSession
	inFlight  int
	cancelled bool
	fault     error
	finished  bool
	done      chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxInFlight sets the global concurrency cap for outstanding
// fetches. Values below 1 are ignored.
func WithMaxInFlight(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxInFlight = n
		}
	}
}

// WithDefaultPort sets the port substituted for peers that report none.
func WithDefaultPort(port uint16) Option {
	return func(c *Controller) {
		if port != 0 {
			c.defaultPort = port
		}
	}
}

// WithLogger sets the logger used for traversal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithObserver attaches a callback invoked after every resolved fetch.
// The callback runs on the goroutine that completed the fetch and must
// not call back into the controller.
func WithObserver(fn func(Event)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController creates a traversal controller around the given fetcher.
func NewController(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:     fetcher,
		maxInFlight: DefaultMaxInFlight,
		defaultPort: DefaultPeerPort,
		queue:       NewQueue(),
		merger:      NewMerger(),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Run enters the network at rawEntry and drives the traversal to
// completion, returning the finalized session exactly once.
//
// The session always completes: unreachable or erroring subtrees land in
// the session's error map rather than blocking other branches, and the
// traversal terminates at the last completion that finds the queue empty.
//
// On context cancellation no new fetches are admitted; already-issued
// fetches drain (the fetcher bounds each one), the partial session is
// finalized, and the context's error is returned alongside it. An
// internal fault likewise stops admission and is returned with the
// partial session.
func (c *Controller) Run(ctx context.Context, rawEntry string) (*model.CrawlSession, error) {
	entry := model.NormalizeAddress(rawEntry, "", c.defaultPort)
	if entry.IsZero() {
		return nil, ErrEmptyEntry
	}

	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return nil, ErrAlreadyRun
	}
	c.session = model.NewCrawlSession(entry)
	c.queue.EnqueueIfNeeded(entry)
	c.logger.Debug("entering network", "entry", entry)
	c.dispatchLocked(ctx, 0)
	c.maybeFinishLocked()
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		c.mu.Lock()
		// The last completion may have closed done in the same instant;
		// a traversal that already finished cleanly stays clean.
		if !c.finished {
			c.cancelled = true
			c.maybeFinishLocked()
		}
		c.mu.Unlock()
		<-c.done
	case <-c.done:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("traversal finished",
		"entry", entry,
		"nodes", c.session.NodeCount(),
		"errors", c.session.ErrorCount(),
		"tracked", c.queue.Tracked(),
		"duration", c.session.Duration(),
	)

	if c.fault != nil {
		return c.session, c.fault
	}
	if c.cancelled {
		return c.session, ctx.Err()
	}
	return c.session, nil
}

// Peers returns the consolidated view of every peer reported during the
// traversal, one record per public key in discovery order. Call it after
// Run has returned.
func (c *Controller) Peers() []*MergedPeerRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merger.Records()
}

// dispatchLocked refills available concurrency slots from the current
// queue snapshot. Addresses beyond the cap stay queued for the next
// completion to pick up. It reports whether the snapshot was non-empty.
//
// This is an iterative loop rather than recursion through completions:
// each admitted fetch runs on its own goroutine and re-enters dispatch
// via handleResult when it resolves.
func (c *Controller) dispatchLocked(ctx context.Context, hop int) bool {
	if c.cancelled || c.fault != nil || ctx.Err() != nil {
		return false
	}

	snapshot := c.queue.QueuedAddresses()
	for _, addr := range snapshot {
		if c.inFlight >= c.maxInFlight {
			break
		}
		if err := c.queue.MarkInFlight(addr); err != nil {
			c.setFaultLocked(err)
			break
		}
		c.inFlight++
		c.logger.Debug("fetch admitted", "addr", addr, "hop", hop, "in_flight", c.inFlight)
		go c.fetch(ctx, addr, hop)
	}

	return len(snapshot) > 0
}

// fetch performs one fetch off the traversal goroutine and feeds the
// result back into the bookkeeping.
func (c *Controller) fetch(ctx context.Context, addr model.Address, hop int) {
	doc, err := c.fetcher.Fetch(ctx, addr)
	c.handleResult(ctx, addr, hop, doc, err)
}

// handleResult records one resolved fetch, re-offers discovered peers to
// the queue, refills admission slots, and detects termination. All of it
// runs under the controller mutex; only the observer callback fires
// outside.
func (c *Controller) handleResult(ctx context.Context, addr model.Address, hop int, doc *model.CrawlDocument, err error) {
	c.mu.Lock()

	c.inFlight--
	if qerr := c.queue.Dequeue(addr, err == nil); qerr != nil {
		c.setFaultLocked(qerr)
	}

	ev := Event{Addr: addr, Hop: hop}
	if err != nil {
		ev.Code = fetchErrorCode(err)
		c.session.Errors[addr] = ev.Code
		c.logger.Debug("fetch failed", "addr", addr, "hop", hop, "code", ev.Code)
	} else {
		c.session.Data[addr] = doc.Raw
		ev.Peers = len(doc.Overlay.Active)
		for _, peer := range doc.Overlay.Active {
			c.recordPeerLocked(peer)
			next := model.NormalizeAddress(peer.IP, peer.Port, c.defaultPort)
			if c.queue.EnqueueIfNeeded(next) {
				ev.NewlyQueued++
			}
		}
		c.logger.Debug("fetch succeeded",
			"addr", addr,
			"hop", hop,
			"peers", ev.Peers,
			"newly_queued", ev.NewlyQueued,
		)
	}

	c.dispatchLocked(ctx, hop+1)
	c.maybeFinishLocked()
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(ev)
	}
}

// recordPeerLocked folds one reported peer view into the merger.
// Peers without a public key cannot be identified across reporters and
// are skipped; a malformed key skips the view but still lets the peer's
// address be enqueued by the caller.
func (c *Controller) recordPeerLocked(peer model.PeerEntry) {
	if peer.PublicKey == "" {
		return
	}
	id, err := model.NormalizePublicKey(peer.PublicKey)
	if err != nil {
		c.logger.Debug("unparseable peer public key", "public_key", peer.PublicKey)
		return
	}
	c.merger.RecordView(id, peer.Fields)
}

// setFaultLocked records the first internal fault. Admission stops, but
// in-flight fetches still drain so the session can finalize.
func (c *Controller) setFaultLocked(err error) {
	if c.fault == nil {
		c.fault = err
		c.logger.Error("internal fault, aborting traversal", "error", err)
	}
}

// maybeFinishLocked finalizes the session when nothing is in flight and
// nothing remains to admit (or the traversal was cancelled or faulted).
// Termination is detected at the last completion whose queue scan comes
// up empty; this is correct because every discovered address is enqueued
// at most once and every admitted fetch resolves.
func (c *Controller) maybeFinishLocked() {
	if c.finished || c.inFlight > 0 {
		return
	}
	if !c.cancelled && c.fault == nil && c.queue.QueuedLen() > 0 {
		return
	}
	c.finished = true
	c.session.Finalize()
	close(c.done)
}

// fetchErrorCode extracts the typed classification from a fetch error.
func fetchErrorCode(err error) model.ErrorCode {
	var coder errorCoder
	if errors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return model.ErrorCodeNetwork
}
