// Package pipeline composes fault-tolerance policies around an operation.
//
// A Pipeline is an ordered, immutable chain of policies built once and shared
// across all concurrent callers. Policies apply outermost to innermost,
// exactly as listed; the composer never reorders them:
//
//	p := pipeline.New("predict", []policy.Policy{
//	    policy.NewTimeout(policy.TimeoutConfig{Timeout: 5 * time.Second}),
//	    policy.NewRetry(policy.RetryConfig{MaxRetries: 3, BaseDelay: time.Second}),
//	    policy.NewCircuitBreaker(policy.CircuitBreakerConfig{FailureRatio: 0.5}),
//	})
//
//	err := p.Execute(ctx, func(ctx context.Context) error {
//	    return model.Predict(ctx, input)
//	})
//
// Put Timeout outside Retry, as above, so the deadline bounds the whole
// retry series rather than each attempt. This is a hard recommendation, not
// an enforced invariant: retry-inside-breaker maximizes self-healing while
// breaker-inside-retry protects stricter error budgets, and both orders are
// legitimate.
//
// Value-carrying operations go through Run:
//
//	pred, err := pipeline.Run(ctx, p, func(ctx context.Context) (Prediction, error) {
//	    return model.Predict(ctx, input)
//	})
//
// A Pipeline is never reconfigured in place. To change policy parameters at
// runtime, build a new Pipeline and swap it into a Registry; in-flight
// executions finish on the old chain.
package pipeline
