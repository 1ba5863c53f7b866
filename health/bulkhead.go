package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/bastion/policy"
)

// BulkheadCheckerConfig configures saturation thresholds for a bulkhead
// checker.
type BulkheadCheckerConfig struct {
	// WarnRatio is the fraction of held permits that triggers degraded
	// status. Default: 0.8
	WarnRatio float64
}

// BulkheadChecker reports the saturation of a bulkhead. It is healthy while
// permits are available, degraded once usage crosses WarnRatio, and unhealthy
// when both the permits and the waiter queue are full.
type BulkheadChecker struct {
	name     string
	bulkhead *policy.Bulkhead
	config   BulkheadCheckerConfig
}

// NewBulkheadChecker creates a checker over the given bulkhead.
func NewBulkheadChecker(name string, b *policy.Bulkhead, config ...BulkheadCheckerConfig) *BulkheadChecker {
	cfg := BulkheadCheckerConfig{WarnRatio: 0.8}
	if len(config) > 0 && config[0].WarnRatio > 0 && config[0].WarnRatio <= 1 {
		cfg = config[0]
	}
	return &BulkheadChecker{name: name, bulkhead: b, config: cfg}
}

// Name returns the name of this checker.
func (c *BulkheadChecker) Name() string { return c.name }

// Check reports bulkhead saturation from a metrics snapshot.
func (c *BulkheadChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	m := c.bulkhead.Metrics()

	details := map[string]any{
		"active":       m.Active,
		"queued":       m.Queued,
		"permit_limit": m.PermitLimit,
		"queue_limit":  m.QueueLimit,
		"peak_active":  m.PeakActive,
		"rejected":     m.Rejected,
	}

	if m.Active >= m.PermitLimit && m.Queued >= m.QueueLimit {
		msg := fmt.Sprintf("bulkhead saturated: %d/%d permits, %d/%d queued",
			m.Active, m.PermitLimit, m.Queued, m.QueueLimit)
		return Unhealthy(msg, policy.ErrBulkheadRejected).WithDetails(details)
	}

	usage := float64(m.Active) / float64(m.PermitLimit)
	if usage >= c.config.WarnRatio {
		return Degraded(fmt.Sprintf("bulkhead usage high: %d/%d permits", m.Active, m.PermitLimit)).
			WithDetails(details)
	}

	return Healthy(fmt.Sprintf("bulkhead usage normal: %d/%d permits", m.Active, m.PermitLimit)).
		WithDetails(details)
}
