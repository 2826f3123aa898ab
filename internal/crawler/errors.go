package crawler

import (
	"errors"
	"fmt"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// Traversal errors.
var (
	// ErrInvariant marks a violation of the traversal's internal
	// contract (double enqueue, dequeue of an untracked address).
	// It indicates a bug in discovery logic, not an environmental
	// condition, and is never recorded in the session's error map.
	// Match with errors.Is.
	ErrInvariant = errors.New("crawl invariant violated")

	// ErrEmptyEntry is returned when the traversal is started without
	// an entry address.
	ErrEmptyEntry = errors.New("entry address is empty")

	// ErrAlreadyRun is returned when Run is called twice on the same
	// controller. A controller owns its queue and session for exactly
	// one traversal.
	ErrAlreadyRun = errors.New("controller has already run a traversal")
)

// invariantFault builds an internal fault for a contract violation at
// the given queue operation.
func invariantFault(op string, addr model.Address) error {
	return fmt.Errorf("%w: %s %q", ErrInvariant, op, addr)
}
