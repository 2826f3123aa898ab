package crawler

import "github.com/chriswill/rippled-network-crawler/internal/model"

// nodeState is the lifecycle position of one address within a traversal.
// An address absent from the state map is implicitly unseen.
type nodeState int

const (
	// stateQueued means the address was discovered and awaits admission.
	stateQueued nodeState = iota + 1
	// stateInFlight means a fetch for the address is outstanding.
	stateInFlight
	// stateDoneSuccess means the fetch resolved with a document.
	stateDoneSuccess
	// stateDoneFailure means the fetch resolved with an error code.
	stateDoneFailure
)

// Queue tracks the state of every address ever seen during one traversal
// and enforces the "enqueue once" invariant: no address re-enters the
// queued or in-flight state after it has been resolved.
//
// Queue is not safe for concurrent use; the Controller serializes all
// access under its own mutex.
type Queue struct {
	// states holds the lifecycle state of every tracked address.
	states map[model.Address]nodeState

	// order preserves discovery order for FIFO admission. Entries are
	// lazily skipped once their address has left the queued state.
	order []model.Address
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{states: make(map[model.Address]nodeState)}
}

// EnqueueIfNeeded transitions addr to queued if it has never been seen.
// It is a no-op for the zero address and for any address already tracked
// in any state, which is how the BFS suppresses duplicate discovery.
// It reports whether the address was actually enqueued.
func (q *Queue) EnqueueIfNeeded(addr model.Address) bool {
	if addr.IsZero() {
		return false
	}
	if _, tracked := q.states[addr]; tracked {
		return false
	}
	q.states[addr] = stateQueued
	q.order = append(q.order, addr)
	return true
}

// Enqueue transitions addr to queued. Unlike EnqueueIfNeeded, calling it
// for an address that is already tracked is a contract violation.
func (q *Queue) Enqueue(addr model.Address) error {
	if addr.IsZero() {
		return invariantFault("enqueue of empty address", addr)
	}
	if _, tracked := q.states[addr]; tracked {
		return invariantFault("double enqueue", addr)
	}
	q.states[addr] = stateQueued
	q.order = append(q.order, addr)
	return nil
}

// MarkInFlight admits a queued address under the concurrency cap.
// The address must currently be queued.
func (q *Queue) MarkInFlight(addr model.Address) error {
	if q.states[addr] != stateQueued {
		return invariantFault("admit of non-queued address", addr)
	}
	q.states[addr] = stateInFlight
	return nil
}

// Dequeue resolves an in-flight address as done. The address must
// currently be in flight; resolving an untracked or already-resolved
// address is a contract violation.
func (q *Queue) Dequeue(addr model.Address, success bool) error {
	if q.states[addr] != stateInFlight {
		return invariantFault("dequeue of non-in-flight address", addr)
	}
	if success {
		q.states[addr] = stateDoneSuccess
	} else {
		q.states[addr] = stateDoneFailure
	}
	return nil
}

// QueuedAddresses returns a snapshot of addresses currently queued, in
// discovery order. The snapshot drives admission: the controller admits
// from it until the in-flight cap is reached.
func (q *Queue) QueuedAddresses() []model.Address {
	snapshot := make([]model.Address, 0, len(q.order))
	for _, addr := range q.order {
		if q.states[addr] == stateQueued {
			snapshot = append(snapshot, addr)
		}
	}
	return snapshot
}

// QueuedLen returns the number of addresses awaiting admission.
func (q *Queue) QueuedLen() int {
	n := 0
	for _, state := range q.states {
		if state == stateQueued {
			n++
		}
	}
	return n
}

// Tracked returns the total number of addresses ever seen.
func (q *Queue) Tracked() int {
	return len(q.states)
}
