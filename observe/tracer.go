package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/bastion/policy"
)

// PipelineMeta contains metadata about a pipeline execution for telemetry.
type PipelineMeta struct {
	Pipeline string   // Pipeline name (required)
	ExecID   string   // Unique execution identifier (optional)
	Policies []string // Ordered policy names, outermost first (optional)
}

// SpanName returns the deterministic span name for this pipeline.
// Format: pipeline.exec.<name>
func (m PipelineMeta) SpanName() string {
	return "pipeline.exec." + m.Pipeline
}

// Tracer wraps OpenTelemetry tracing with pipeline-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a pipeline execution.
	StartSpan(ctx context.Context, meta PipelineMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error and its classified kind.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with pipeline metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta PipelineMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.name", meta.Pipeline),
		attribute.Bool("pipeline.error", false), // Updated in EndSpan if error
	}
	if meta.ExecID != "" {
		attrs = append(attrs, attribute.String("pipeline.exec_id", meta.ExecID))
	}
	if len(meta.Policies) > 0 {
		attrs = append(attrs, attribute.StringSlice("pipeline.policies", meta.Policies))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status and kind if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.Bool("pipeline.error", true),
			attribute.String("pipeline.error_kind", policy.KindOf(err).String()),
		)
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta PipelineMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
