// Package policy provides the fault-tolerance policies that make up a
// resilience pipeline.
//
// Every policy wraps a fallible operation and either returns the inner
// result unchanged or intercepts it with a policy-specific signal. The
// policies share one contract:
//
//	type Policy interface {
//	    Name() string
//	    Execute(ctx context.Context, op Operation) error
//	}
//
// # Policies
//
//   - CircuitBreaker: Tracks a rolling failure ratio over a sampling window
//     and short-circuits calls with ErrCircuitOpen while the window looks
//     unhealthy. Recovers through a single half-open probe.
//
//   - Retry: Re-invokes a failed operation with exponential backoff delays,
//     returning the last failure unchanged once the retry budget is spent.
//
//   - Timeout: Bounds the wall-clock duration of a single attempt, returning
//     ErrTimeout when the deadline wins the race.
//
//   - Bulkhead: Bounds the number of in-flight executions, queuing excess
//     callers in FIFO order up to a queue limit and rejecting the rest with
//     ErrBulkheadRejected.
//
// # Error classification
//
// Failures carry a kind, not a type. KindOf collapses any error produced by
// a policy chain into one of the five kinds a caller needs to dispatch on:
//
//	switch policy.KindOf(err) {
//	case policy.KindCircuitOpen:
//	    return degraded(input)
//	case policy.KindBulkheadRejected:
//	    return tooBusy()
//	case policy.KindTimeout:
//	    return gatewayTimeout()
//	}
//
// # Composition
//
// Policies are composed by the pipeline package. They can also be nested by
// hand; each policy's Execute simply calls the next:
//
//	to := policy.NewTimeout(policy.TimeoutConfig{Timeout: 5 * time.Second})
//	rt := policy.NewRetry(policy.RetryConfig{MaxRetries: 3})
//	err := to.Execute(ctx, func(ctx context.Context) error {
//	    return rt.Execute(ctx, callModel)
//	})
//
// All policies are safe for concurrent use. CircuitBreaker and Bulkhead are
// the only ones holding shared mutable state; both guard it with a single
// mutex per instance so no caller observes a half-applied transition.
package policy
