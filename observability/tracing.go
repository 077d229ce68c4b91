package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/xraph/herald"

// Tracer provides OpenTelemetry tracing for Herald.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from the global provider.
func NewTracer() *Tracer {
	return NewTracerFrom(otel.GetTracerProvider())
}

// NewTracerFrom creates a tracer from a specific provider.
func NewTracerFrom(tp trace.TracerProvider) *Tracer {
	return &Tracer{
		tracer: tp.Tracer(tracerName),
	}
}

// StartNotifySpan starts the span covering one Notify invocation.
func (t *Tracer) StartNotifySpan(ctx context.Context, notificationID, issueID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "herald.notify",
		trace.WithAttributes(
			attribute.String("herald.notification_id", notificationID),
			attribute.String("herald.issue_id", issueID),
		),
	)
}

// EndNotifySpan ends a notify span with its outcome.
func (t *Tracer) EndNotifySpan(span trace.Span, outcome string, drafts, destinations int, err error) {
	span.SetAttributes(
		attribute.String("herald.outcome", outcome),
		attribute.Int("herald.drafts", drafts),
		attribute.Int("herald.destinations", destinations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// StartSendSpan starts a span for one destination send. destination must
// already be redacted.
func (t *Tracer) StartSendSpan(ctx context.Context, notificationID, destination string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "herald.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("herald.notification_id", notificationID),
			attribute.String("herald.destination", destination),
		),
	)
}

// EndSendSpan ends a send span with result attributes.
func (t *Tracer) EndSendSpan(span trace.Span, status string, statusCode, latencyMs int, errMsg string) {
	span.SetAttributes(
		attribute.String("herald.status", status),
		attribute.Int("http.status_code", statusCode),
		attribute.Int("herald.latency_ms", latencyMs),
	)
	if errMsg != "" {
		span.SetAttributes(attribute.String("herald.error", errMsg))
		span.SetStatus(codes.Error, errMsg)
	}
	span.End()
}
