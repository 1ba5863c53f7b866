// Package health exposes the state of resilience policies as health checks.
//
// A Checker is any component that can report its status: Healthy, Degraded,
// or Unhealthy. BreakerChecker and BulkheadChecker adapt circuit breakers and
// bulkheads into checkers, so the signals the policies already track double
// as operational health.
//
// # Basic Usage
//
//	cb := policy.NewCircuitBreaker(policy.CircuitBreakerConfig{})
//	check := health.NewBreakerChecker("breaker.predict", cb)
//
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("circuit open: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite
// check that fans out in parallel:
//
//	agg := health.NewAggregator()
//	agg.Register("breaker.predict", health.NewBreakerChecker("breaker.predict", cb))
//	agg.Register("bulkhead.predict", health.NewBulkheadChecker("bulkhead.predict", bh))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common probe patterns:
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
//	// GET /healthz  liveness
//	// GET /readyz   readiness (degraded still ready)
//	// GET /health   detailed JSON per checker
package health
