package payment

import (
	"context"
	"sync"
	"time"

	"github.com/smartstore/backend/internal/domain/payment"
)

// pendingAttempt is one parked attempt waiting for a client action
type pendingAttempt struct {
	attempt *payment.Attempt
	// claimed closes when the entry leaves the table, releasing its watcher
	claimed chan struct{}
	// readyAt is the earliest instant a confirmation is accepted (zero
	// when the adapter has no minimum display time)
	readyAt time.Time
	// expiresAt is when the entry becomes sweepable
	expiresAt time.Time
}

// attemptTable holds attempts between initiation and the client action that
// resolves them. Every entry must eventually leave: a take, a ctx watcher,
// or the expiry sweep.
type attemptTable struct {
	mu      sync.Mutex
	entries map[string]*pendingAttempt
}

func newAttemptTable() *attemptTable {
	return &attemptTable{entries: make(map[string]*pendingAttempt)}
}

func (t *attemptTable) put(key string, entry *pendingAttempt) {
	entry.claimed = make(chan struct{})
	t.mu.Lock()
	t.entries[key] = entry
	t.mu.Unlock()
}

// take removes and returns the entry for key. The entry is consumed: a
// second take for the same key reports ErrUnknownAttempt.
func (t *attemptTable) take(key string) (*pendingAttempt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[key]
	if !ok {
		return nil, payment.ErrUnknownAttempt
	}
	delete(t.entries, key)
	close(entry.claimed)
	return entry, nil
}

// takeReady is take gated by the entry's minimum display time. An early
// call reports ErrConfirmationEarly and leaves the entry in place.
func (t *attemptTable) takeReady(key string, now time.Time) (*pendingAttempt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[key]
	if !ok {
		return nil, payment.ErrUnknownAttempt
	}
	if now.Before(entry.readyAt) {
		return nil, payment.ErrConfirmationEarly
	}
	delete(t.entries, key)
	close(entry.claimed)
	return entry, nil
}

// sweep removes every expired entry and returns them for resolution
func (t *attemptTable) sweep(now time.Time) []*pendingAttempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	var expired []*pendingAttempt
	for key, entry := range t.entries {
		if now.After(entry.expiresAt) {
			delete(t.entries, key)
			close(entry.claimed)
			expired = append(expired, entry)
		}
	}
	return expired
}

// watchCancellation evicts the entry when ctx is cancelled before any
// client action claims it, resolving the attempt as cancelled so a waiting
// settlement is released rather than parked forever.
func (t *attemptTable) watchCancellation(ctx context.Context, key string, entry *pendingAttempt) {
	go func() {
		select {
		case <-entry.claimed:
		case <-ctx.Done():
			if evicted, err := t.take(key); err == nil {
				evicted.attempt.Resolve(payment.FailureOutcome(
					payment.ErrCancelledByUser, "Payment cancelled by user"))
			}
		}
	}()
}
