package health

import (
	"context"
	"testing"

	"github.com/jonwraymond/bastion/policy"
)

func BenchmarkBreakerChecker_Check(b *testing.B) {
	cb := policy.NewCircuitBreaker(policy.CircuitBreakerConfig{})
	check := NewBreakerChecker("breaker.bench", cb)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = check.Check(ctx)
	}
}

func BenchmarkBulkheadChecker_Check(b *testing.B) {
	bh := policy.NewBulkhead(policy.BulkheadConfig{PermitLimit: 8})
	check := NewBulkheadChecker("bulkhead.bench", bh)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = check.Check(ctx)
	}
}

func BenchmarkAggregator_CheckAll(b *testing.B) {
	agg := NewAggregator()
	for _, name := range []string{"a", "b", "c", "d"} {
		agg.Register(name, Named(name, func(ctx context.Context) Result {
			return Healthy("ok")
		}))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckAll(ctx)
	}
}
