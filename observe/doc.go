// Package observe wires OpenTelemetry tracing, metrics, and structured
// logging around resilience pipelines.
//
// NewObserver builds the telemetry providers from a single Config; the
// Instrument adapter then plugs them into a pipeline and its policies:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "sentiment-api",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	in, err := observe.NewInstrument(obs)
//
//	cb := policy.NewCircuitBreaker(policy.CircuitBreakerConfig{
//	    OnOpened:     in.BreakerOpened("predict"),
//	    OnClosed:     in.BreakerClosed("predict"),
//	    OnHalfOpened: in.BreakerHalfOpened("predict"),
//	})
//	p := pipeline.New("predict", []policy.Policy{to, rt, cb},
//	    pipeline.WithObserver(in))
//
// Every hook is synchronous and cheap; disabled subsystems fall back to
// no-op providers so instrumented code needs no conditionals.
package observe
