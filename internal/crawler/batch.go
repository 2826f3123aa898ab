package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chriswill/rippled-network-crawler/internal/model"
	"golang.org/x/sync/errgroup"
)

// Batch crawls several independent entry nodes concurrently, one
// Controller per entry. It exists for crawling multiple networks (or
// cross-checking one network from several vantage points) in one run.
//
// Design decision: each entry gets a fresh controller from a factory
// rather than sharing one, because a controller exclusively owns its
// queue and session for a single traversal.
type Batch struct {
	// controllerFactory creates a fresh controller per entry.
	controllerFactory func() *Controller

	// concurrency caps how many traversals run at once. Each traversal
	// carries its own in-flight cap, so the total number of outstanding
	// fetches is concurrency * MaxInFlight.
	concurrency int

	// logger is used for batch-level progress.
	logger *slog.Logger

	mu      sync.Mutex
	results []Result
}

// Result is the outcome of one entry's traversal.
type Result struct {
	// Entry is the raw entry address as given.
	Entry string

	// Session is the traversal's session report. Non-nil even on
	// cancellation, when it holds partial results.
	Session *model.CrawlSession

	// Err is the traversal-level error (cancellation or internal
	// fault). Per-node fetch failures live in Session.Errors instead.
	Err error
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchConcurrency caps the number of concurrent traversals.
// Values below 1 are ignored; the default is 3.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the logger for batch-level progress.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch that builds controllers with the given
// factory.
func NewBatch(controllerFactory func() *Controller, opts ...BatchOption) *Batch {
	b := &Batch{
		controllerFactory: controllerFactory,
		concurrency:       3,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run crawls every entry and returns one Result per entry, in input
// order. Traversal failures are recorded per result rather than aborting
// the batch; the error return reflects context cancellation only.
func (b *Batch) Run(ctx context.Context, entries []string) ([]Result, error) {
	b.mu.Lock()
	b.results = make([]Result, len(entries))
	b.mu.Unlock()

	err := b.RunWithCallback(ctx, entries, func(res Result, index int) {
		b.mu.Lock()
		b.results[index] = res
		b.mu.Unlock()
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.results, err
}

// RunWithCallback crawls every entry and calls the callback as each
// traversal completes. The callback runs on the goroutine that finished
// the traversal and must be safe for concurrent use.
func (b *Batch) RunWithCallback(ctx context.Context, entries []string, callback func(res Result, index int)) error {
	b.logger.Info("starting batch crawl",
		"entries", len(entries),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			select {
			case <-ctx.Done():
				callback(Result{Entry: entry, Err: ctx.Err()}, i)
				return nil
			default:
			}

			controller := b.controllerFactory()
			session, err := controller.Run(ctx, entry)
			if err != nil {
				b.logger.Warn("traversal failed", "entry", entry, "error", err)
			}
			callback(Result{Entry: entry, Session: session, Err: err}, i)
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch crawl complete",
		"entries", len(entries),
		"elapsed", time.Since(start),
	)

	return err
}
