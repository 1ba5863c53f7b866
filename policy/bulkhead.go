package policy

import (
	"context"
	"sync"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// PermitLimit is the maximum number of concurrent executions.
	// Default: 10
	PermitLimit int

	// QueueLimit is the maximum number of callers allowed to wait for a
	// permit. Zero means no queueing: excess callers are rejected
	// immediately.
	// Default: 0
	QueueLimit int

	// OnRejected fires synchronously each time a caller is shed because
	// the queue is full.
	OnRejected func()
}

// Bulkhead bounds the number of concurrently in-flight executions of one
// operation class. Callers beyond the permit limit wait in a FIFO queue up
// to the queue limit; beyond that they are rejected immediately with
// ErrBulkheadRejected. Releasing a permit hands it directly to the queue
// head, so grant order matches arrival order.
type Bulkhead struct {
	config BulkheadConfig

	mu       sync.Mutex
	active   int
	peak     int
	queue    []chan struct{} // FIFO waiters; a closed channel is a grant
	rejected int64
}

// NewBulkhead creates a bulkhead, applying defaults for zero fields.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.PermitLimit <= 0 {
		config.PermitLimit = 10
	}
	if config.QueueLimit < 0 {
		config.QueueLimit = 0
	}
	return &Bulkhead{config: config}
}

// Name implements Policy.
func (b *Bulkhead) Name() string { return "bulkhead" }

// Execute acquires a permit, runs op, and releases the permit whether op
// succeeded or failed.
func (b *Bulkhead) Execute(ctx context.Context, op Operation) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer b.release()
	return op(ctx)
}

// acquire takes a permit, queueing FIFO when none is free. Cancellation
// while queued removes the waiter so the slot is never leaked.
func (b *Bulkhead) acquire(ctx context.Context) error {
	b.mu.Lock()
	if b.active < b.config.PermitLimit {
		b.active++
		if b.active > b.peak {
			b.peak = b.active
		}
		b.mu.Unlock()
		return nil
	}

	if len(b.queue) >= b.config.QueueLimit {
		b.rejected++
		b.mu.Unlock()
		if b.config.OnRejected != nil {
			b.config.OnRejected()
		}
		return ErrBulkheadRejected
	}

	grant := make(chan struct{})
	b.queue = append(b.queue, grant)
	b.mu.Unlock()

	select {
	case <-grant:
		return nil
	case <-ctx.Done():
		b.mu.Lock()
		for i, g := range b.queue {
			if g == grant {
				b.queue = append(b.queue[:i], b.queue[i+1:]...)
				b.mu.Unlock()
				return ctx.Err()
			}
		}
		// The permit was granted while we were cancelling; pass it on.
		b.releaseLocked()
		b.mu.Unlock()
		return ctx.Err()
	}
}

func (b *Bulkhead) release() {
	b.mu.Lock()
	b.releaseLocked()
	b.mu.Unlock()
}

// releaseLocked hands the permit to the queue head, or frees it when the
// queue is empty. The active count is unchanged on a hand-off: the permit
// moves from one holder to the next.
func (b *Bulkhead) releaseLocked() {
	if len(b.queue) > 0 {
		grant := b.queue[0]
		b.queue = b.queue[1:]
		close(grant)
		return
	}
	b.active--
}

// BulkheadMetrics is a read-only snapshot of the bulkhead for diagnostics.
type BulkheadMetrics struct {
	Active      int
	Queued      int
	PermitLimit int
	QueueLimit  int
	PeakActive  int
	Rejected    int64
}

// Metrics reports the current permit and queue occupancy.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BulkheadMetrics{
		Active:      b.active,
		Queued:      len(b.queue),
		PermitLimit: b.config.PermitLimit,
		QueueLimit:  b.config.QueueLimit,
		PeakActive:  b.peak,
		Rejected:    b.rejected,
	}
}

// Ensure Bulkhead implements Policy.
var _ Policy = (*Bulkhead)(nil)
