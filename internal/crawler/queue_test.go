package crawler

import (
	"errors"
	"testing"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// TestQueueEnqueueIfNeeded tests the enqueue-once behavior duplicate
// discovery relies on.
func TestQueueEnqueueIfNeeded(t *testing.T) {
	t.Parallel()

	q := NewQueue()

	if !q.EnqueueIfNeeded("10.0.0.1:51235") {
		t.Error("first discovery should enqueue")
	}
	if q.EnqueueIfNeeded("10.0.0.1:51235") {
		t.Error("second discovery of the same address should be a no-op")
	}
	if q.EnqueueIfNeeded("") {
		t.Error("zero address should never be enqueued")
	}

	if got := q.QueuedLen(); got != 1 {
		t.Errorf("QueuedLen() = %d, want 1", got)
	}
	if got := q.Tracked(); got != 1 {
		t.Errorf("Tracked() = %d, want 1", got)
	}
}

// TestQueueNoReentryAfterResolution verifies that a resolved address can
// never re-enter the queue, in either resolution state.
func TestQueueNoReentryAfterResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		success bool
	}{
		{name: "after success", success: true},
		{name: "after failure", success: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := NewQueue()
			addr := model.Address("10.0.0.1:51235")

			if !q.EnqueueIfNeeded(addr) {
				t.Fatal("enqueue failed")
			}
			if err := q.MarkInFlight(addr); err != nil {
				t.Fatalf("MarkInFlight() returned error: %v", err)
			}
			if err := q.Dequeue(addr, tt.success); err != nil {
				t.Fatalf("Dequeue() returned error: %v", err)
			}

			if q.EnqueueIfNeeded(addr) {
				t.Error("resolved address re-entered the queue")
			}
			if got := q.QueuedLen(); got != 0 {
				t.Errorf("QueuedLen() = %d, want 0", got)
			}
		})
	}
}

// TestQueueContractViolations verifies that every out-of-order transition
// is reported as an invariant fault.
func TestQueueContractViolations(t *testing.T) {
	t.Parallel()

	t.Run("double enqueue", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		if err := q.Enqueue("10.0.0.1:51235"); err != nil {
			t.Fatalf("first Enqueue() returned error: %v", err)
		}
		err := q.Enqueue("10.0.0.1:51235")
		if !errors.Is(err, ErrInvariant) {
			t.Errorf("double Enqueue() = %v, want ErrInvariant", err)
		}
	})

	t.Run("enqueue of empty address", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		if err := q.Enqueue(""); !errors.Is(err, ErrInvariant) {
			t.Errorf("Enqueue(\"\") = %v, want ErrInvariant", err)
		}
	})

	t.Run("admit of untracked address", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		if err := q.MarkInFlight("10.0.0.1:51235"); !errors.Is(err, ErrInvariant) {
			t.Errorf("MarkInFlight() = %v, want ErrInvariant", err)
		}
	})

	t.Run("dequeue of untracked address", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		if err := q.Dequeue("10.0.0.1:51235", true); !errors.Is(err, ErrInvariant) {
			t.Errorf("Dequeue() = %v, want ErrInvariant", err)
		}
	})

	t.Run("dequeue of queued but not admitted address", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.EnqueueIfNeeded("10.0.0.1:51235")
		if err := q.Dequeue("10.0.0.1:51235", true); !errors.Is(err, ErrInvariant) {
			t.Errorf("Dequeue() = %v, want ErrInvariant", err)
		}
	})

	t.Run("double dequeue", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.EnqueueIfNeeded("10.0.0.1:51235")
		if err := q.MarkInFlight("10.0.0.1:51235"); err != nil {
			t.Fatalf("MarkInFlight() returned error: %v", err)
		}
		if err := q.Dequeue("10.0.0.1:51235", true); err != nil {
			t.Fatalf("first Dequeue() returned error: %v", err)
		}
		if err := q.Dequeue("10.0.0.1:51235", true); !errors.Is(err, ErrInvariant) {
			t.Errorf("second Dequeue() = %v, want ErrInvariant", err)
		}
	})
}

// TestQueueDiscoveryOrder verifies the FIFO snapshot used for admission.
func TestQueueDiscoveryOrder(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	addrs := []model.Address{"10.0.0.1:51235", "10.0.0.2:51235", "10.0.0.3:51235"}
	for _, addr := range addrs {
		q.EnqueueIfNeeded(addr)
	}

	snapshot := q.QueuedAddresses()
	if len(snapshot) != len(addrs) {
		t.Fatalf("QueuedAddresses() returned %d addresses, want %d", len(snapshot), len(addrs))
	}
	for i, addr := range addrs {
		if snapshot[i] != addr {
			t.Errorf("snapshot[%d] = %q, want %q", i, snapshot[i], addr)
		}
	}

	// Admitting the head must remove it from the next snapshot.
	if err := q.MarkInFlight(addrs[0]); err != nil {
		t.Fatalf("MarkInFlight() returned error: %v", err)
	}
	snapshot = q.QueuedAddresses()
	if len(snapshot) != 2 || snapshot[0] != addrs[1] {
		t.Errorf("snapshot after admission = %v, want [%s %s]", snapshot, addrs[1], addrs[2])
	}
}
