package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/bastion/policy"
)

// Metrics records execution and policy metrics for pipelines.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records a pipeline execution with duration and error status.
	RecordExecution(ctx context.Context, meta PipelineMeta, duration time.Duration, err error)

	// RecordRetry records a retry attempt within a pipeline.
	RecordRetry(ctx context.Context, pipeline string, attempt int)

	// RecordBreakerTransition records a circuit breaker state transition.
	RecordBreakerTransition(ctx context.Context, pipeline string, to policy.BreakerState)

	// RecordBreakerRejection records a call rejected by an open circuit.
	RecordBreakerRejection(ctx context.Context, pipeline string)

	// RecordBulkheadRejection records a call rejected by a saturated bulkhead.
	RecordBulkheadRejection(ctx context.Context, pipeline string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter              metric.Meter
	totalCount         metric.Int64Counter
	errorCount         metric.Int64Counter
	durationHist       metric.Float64Histogram
	retryCount         metric.Int64Counter
	breakerTransitions metric.Int64Counter
	breakerRejections  metric.Int64Counter
	bulkheadRejections metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"pipeline.exec.total",
		metric.WithDescription("Total number of pipeline executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"pipeline.exec.errors",
		metric.WithDescription("Total number of pipeline execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"pipeline.exec.duration_ms",
		metric.WithDescription("Pipeline execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"pipeline.retry.attempts",
		metric.WithDescription("Total number of retry attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	breakerTransitions, err := meter.Int64Counter(
		"pipeline.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	breakerRejections, err := meter.Int64Counter(
		"pipeline.breaker.rejections",
		metric.WithDescription("Total number of calls rejected by an open circuit"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	bulkheadRejections, err := meter.Int64Counter(
		"pipeline.bulkhead.rejections",
		metric.WithDescription("Total number of calls rejected by a saturated bulkhead"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:              meter,
		totalCount:         totalCount,
		errorCount:         errorCount,
		durationHist:       durationHist,
		retryCount:         retryCount,
		breakerTransitions: breakerTransitions,
		breakerRejections:  breakerRejections,
		bulkheadRejections: bulkheadRejections,
	}, nil
}

// RecordExecution records metrics for a pipeline execution.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta PipelineMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.name", meta.Pipeline),
	}

	opt := metric.WithAttributes(attrs...)

	// Always increment total counter
	m.totalCount.Add(ctx, 1, opt)

	// Increment error counter on failure, tagged with the classified kind
	if err != nil {
		errAttrs := append(attrs, attribute.String("error.kind", policy.KindOf(err).String()))
		m.errorCount.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}

	durationMs := float64(duration.Milliseconds())
	m.durationHist.Record(ctx, durationMs, opt)
}

func (m *metricsImpl) RecordRetry(ctx context.Context, pipeline string, attempt int) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline.name", pipeline),
		attribute.Int("retry.attempt", attempt),
	))
}

func (m *metricsImpl) RecordBreakerTransition(ctx context.Context, pipeline string, to policy.BreakerState) {
	m.breakerTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline.name", pipeline),
		attribute.String("breaker.state", to.String()),
	))
}

func (m *metricsImpl) RecordBreakerRejection(ctx context.Context, pipeline string) {
	m.breakerRejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline.name", pipeline),
	))
}

func (m *metricsImpl) RecordBulkheadRejection(ctx context.Context, pipeline string) {
	m.bulkheadRejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline.name", pipeline),
	))
}
