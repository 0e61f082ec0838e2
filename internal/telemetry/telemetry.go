// Package telemetry wires OpenTelemetry tracing and Prometheus metrics for search runs.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "chopshop.progression"

// Setup installs a global tracer provider that pretty-prints spans to w.
// The returned shutdown flushes pending spans. When w is nil tracing stays
// on the global no-op provider and shutdown does nothing.
func Setup(w io.Writer, version string) (shutdown func(context.Context) error, err error) {
	if w == nil {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", "chopshop"),
		attribute.String("service.version", version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer wraps the global tracer with an on/off switch and span helpers.
//
// Thread Safety: Safe for concurrent use.
type Tracer struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	enabled bool
}

// NewTracer returns a Tracer. A disabled tracer hands out no-op spans.
func NewTracer(logger *slog.Logger, enabled bool) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
		enabled: enabled,
	}
}

// StartRun opens the span covering one search.
func (t *Tracer) StartRun(ctx context.Context, runID string, checkpoints, beamWidth int) (context.Context, trace.Span) {
	if t == nil || !t.enabled {
		return ctx, noop.Span{}
	}
	return t.tracer.Start(ctx, "chopshop.run",
		trace.WithAttributes(
			attribute.String("chopshop.run_id", runID),
			attribute.Int("chopshop.checkpoints", checkpoints),
			attribute.Int("chopshop.beam_width", beamWidth),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCheckpoint opens a child span for one checkpoint.
func (t *Tracer) StartCheckpoint(ctx context.Context, checkpoint, ceiling, sequences int) (context.Context, trace.Span) {
	if t == nil || !t.enabled {
		return ctx, noop.Span{}
	}
	return t.tracer.Start(ctx, "chopshop.checkpoint",
		trace.WithAttributes(
			attribute.Int("chopshop.checkpoint", checkpoint),
			attribute.Int("chopshop.ceiling", ceiling),
			attribute.Int("chopshop.sequences_in", sequences),
		),
	)
}

// EndCheckpoint records counts on a checkpoint span and ends it.
func (t *Tracer) EndCheckpoint(span trace.Span, evaluated, valid, survivors int) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("chopshop.evaluated", evaluated),
		attribute.Int("chopshop.valid", valid),
		attribute.Int("chopshop.survivors", survivors),
	)
	span.End()
}

// EndRun ends the run span, marking failures.
func (t *Tracer) EndRun(span trace.Span, sequences int, err error) {
	if span == nil {
		return
	}
	switch {
	case errors.Is(err, context.Canceled):
		span.SetStatus(codes.Error, "canceled")
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Int("chopshop.sequences_out", sequences))
	span.End()
}
