package policy

import "context"

// Operation is the unit of work a policy protects. It must honor context
// cancellation to benefit from timeout and cancellation propagation; an
// operation that ignores ctx keeps running in the background after the
// pipeline has already given up on it.
type Operation func(ctx context.Context) error

// Policy wraps an Operation with one fault-tolerance behavior.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Execute must return promptly once ctx is cancelled.
// - Errors: the inner error is returned unchanged unless the policy itself
//   intercepts the call (ErrCircuitOpen, ErrTimeout, ErrBulkheadRejected).
type Policy interface {
	// Name returns a short identifier used in telemetry and diagnostics.
	Name() string

	// Execute runs op under this policy.
	Execute(ctx context.Context, op Operation) error
}
