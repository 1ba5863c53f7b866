package policy

import (
	"context"
	"errors"
)

// Sentinel errors for policy interceptions.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("policy: circuit breaker is open")

	// ErrTimeout is returned when an attempt exceeds its deadline.
	ErrTimeout = errors.New("policy: operation timed out")

	// ErrBulkheadRejected is returned when the bulkhead queue is full.
	ErrBulkheadRejected = errors.New("policy: bulkhead queue is full")
)

// Kind classifies a pipeline outcome for the consuming layer. The core never
// decides the user-visible response; it only classifies the failure.
type Kind int

const (
	// KindOperationFailed means the wrapped operation itself failed.
	KindOperationFailed Kind = iota
	// KindTimeout means an attempt exceeded its wall-clock deadline.
	KindTimeout
	// KindCircuitOpen means the breaker rejected the call without invoking it.
	KindCircuitOpen
	// KindBulkheadRejected means the concurrency limiter shed the call.
	KindBulkheadRejected
	// KindCancelled means the caller abandoned the call.
	KindCancelled
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOperationFailed:
		return "operation_failed"
	case KindTimeout:
		return "timeout"
	case KindCircuitOpen:
		return "circuit_open"
	case KindBulkheadRejected:
		return "bulkhead_rejected"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error classifies as KindOperationFailed;
// callers are expected to check err != nil first.
//
// context.DeadlineExceeded maps to KindTimeout so that deadlines imposed by
// the caller's own context classify the same way as the Timeout policy.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return KindCircuitOpen
	case errors.Is(err, ErrBulkheadRejected):
		return KindBulkheadRejected
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindOperationFailed
	}
}
