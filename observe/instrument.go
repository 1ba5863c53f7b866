package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/bastion/policy"
)

// Instrument adapts an Observer into the hook surfaces exposed by pipelines
// and policies. It implements pipeline.ExecObserver and produces callback
// functions for policy configs.
//
// All hooks run synchronously on the caller's goroutine and must stay cheap.
type Instrument struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrument builds an Instrument from an Observer.
func NewInstrument(obs Observer) (*Instrument, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instrument{
		tracer:  NewTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger(),
	}, nil
}

// OnExecution records a completed pipeline execution. It satisfies
// pipeline.ExecObserver.
func (in *Instrument) OnExecution(ctx context.Context, pipeline, execID string, duration time.Duration, err error) {
	meta := PipelineMeta{Pipeline: pipeline, ExecID: execID}

	in.metrics.RecordExecution(ctx, meta, duration, err)

	// Bulkhead rejections are recorded by the OnRejected hook to avoid
	// double counting; open-circuit rejections have no policy hook, so
	// they are classified here.
	if err != nil && policy.KindOf(err) == policy.KindCircuitOpen {
		in.metrics.RecordBreakerRejection(ctx, pipeline)
	}

	log := in.logger.WithPipeline(meta)
	if err != nil {
		log.Warn(ctx, "pipeline execution failed",
			Field{Key: "error", Value: err.Error()},
			Field{Key: "error.kind", Value: policy.KindOf(err).String()},
			Field{Key: "duration_ms", Value: duration.Milliseconds()},
		)
		return
	}
	log.Debug(ctx, "pipeline execution succeeded",
		Field{Key: "duration_ms", Value: duration.Milliseconds()},
	)
}

// RetryObserver returns a callback for policy.RetryConfig.OnRetry.
func (in *Instrument) RetryObserver(pipeline string) func(attempt int, err error, delay time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		ctx := context.Background()
		in.metrics.RecordRetry(ctx, pipeline, attempt)
		in.logger.WithPipeline(PipelineMeta{Pipeline: pipeline}).Debug(ctx, "retrying operation",
			Field{Key: "attempt", Value: attempt},
			Field{Key: "error", Value: err.Error()},
			Field{Key: "delay_ms", Value: delay.Milliseconds()},
		)
	}
}

// BreakerOpened returns a callback for policy.CircuitBreakerConfig.OnOpened.
func (in *Instrument) BreakerOpened(pipeline string) func(breakDuration time.Duration) {
	return func(breakDuration time.Duration) {
		ctx := context.Background()
		in.metrics.RecordBreakerTransition(ctx, pipeline, policy.StateOpen)
		in.logger.WithPipeline(PipelineMeta{Pipeline: pipeline}).Warn(ctx, "circuit opened",
			Field{Key: "break_duration_ms", Value: breakDuration.Milliseconds()},
		)
	}
}

// BreakerClosed returns a callback for policy.CircuitBreakerConfig.OnClosed.
func (in *Instrument) BreakerClosed(pipeline string) func() {
	return func() {
		ctx := context.Background()
		in.metrics.RecordBreakerTransition(ctx, pipeline, policy.StateClosed)
		in.logger.WithPipeline(PipelineMeta{Pipeline: pipeline}).Info(ctx, "circuit closed")
	}
}

// BreakerHalfOpened returns a callback for policy.CircuitBreakerConfig.OnHalfOpened.
func (in *Instrument) BreakerHalfOpened(pipeline string) func() {
	return func() {
		ctx := context.Background()
		in.metrics.RecordBreakerTransition(ctx, pipeline, policy.StateHalfOpen)
		in.logger.WithPipeline(PipelineMeta{Pipeline: pipeline}).Info(ctx, "circuit half-opened, probing")
	}
}

// BulkheadRejected returns a callback for policy.BulkheadConfig.OnRejected.
func (in *Instrument) BulkheadRejected(pipeline string) func() {
	return func() {
		ctx := context.Background()
		in.metrics.RecordBulkheadRejection(ctx, pipeline)
		in.logger.WithPipeline(PipelineMeta{Pipeline: pipeline}).Warn(ctx, "bulkhead rejected call")
	}
}
