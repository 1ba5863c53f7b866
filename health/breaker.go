package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/bastion/policy"
)

// BreakerChecker reports the health of a circuit breaker. A closed circuit is
// healthy, a half-open circuit probing for recovery is degraded, and an open
// circuit is unhealthy.
type BreakerChecker struct {
	name    string
	breaker *policy.CircuitBreaker
}

// NewBreakerChecker creates a checker over the given breaker. The name should
// identify the protected dependency, for example "breaker.predict".
func NewBreakerChecker(name string, cb *policy.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: cb}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string { return c.name }

// Check reports the breaker state. It never mutates the breaker, so probes do
// not interfere with the recovery protocol.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	st := c.breaker.Status()

	details := map[string]any{
		"state":              st.State.String(),
		"window_total":       st.WindowTotal,
		"window_failures":    st.WindowFailures,
		"failure_ratio":      st.FailureRatio,
		"minimum_throughput": st.MinimumThroughput,
		"rejections":         st.Rejections,
	}
	if !st.OpenedAt.IsZero() {
		details["opened_at"] = st.OpenedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	switch st.State {
	case policy.StateClosed:
		return Healthy("circuit closed").WithDetails(details)
	case policy.StateHalfOpen:
		return Degraded("circuit half-open, probing for recovery").WithDetails(details)
	default:
		msg := fmt.Sprintf("circuit open after %d/%d failures", st.WindowFailures, st.WindowTotal)
		return Unhealthy(msg, policy.ErrCircuitOpen).WithDetails(details)
	}
}
