package delivery

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/herald/observability"
)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// Metrics is optional; nil disables metric recording.
	Metrics *observability.Metrics

	// Tracer is optional; nil disables tracing.
	Tracer *observability.Tracer
}

// Dispatcher sends one payload to a set of destinations.
type Dispatcher struct {
	transport Transport
	config    DispatcherConfig
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher on top of a transport.
func NewDispatcher(transport Transport, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		transport: transport,
		config:    config,
		logger:    logger,
	}
}

// Dispatch sends body to every destination in order and returns one result
// per destination. Failures are logged and recorded; they never stop the
// remaining sends and are never returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, notificationID string, destinations []string, body []byte) []Result {
	results := make([]Result, 0, len(destinations))

	for _, dest := range destinations {
		results = append(results, d.send(ctx, notificationID, dest, body))
	}

	return results
}

func (d *Dispatcher) send(ctx context.Context, notificationID, dest string, body []byte) Result {
	redacted := Redact(dest)

	sendCtx := ctx
	var span trace.Span
	if d.config.Tracer != nil {
		sendCtx, span = d.config.Tracer.StartSendSpan(ctx, notificationID, redacted)
	}

	if d.config.Metrics != nil {
		d.config.Metrics.InflightDispatches.Inc()
	}

	res := d.transport.Send(sendCtx, dest, body, notificationID)
	res.Destination = dest
	if res.Status == "" {
		res.Status = Classify(res.StatusCode)
	}

	if d.config.Metrics != nil {
		d.config.Metrics.InflightDispatches.Dec()
		d.config.Metrics.RecordDispatch(string(res.Status), float64(res.LatencyMs)/1000.0)
	}
	if span != nil {
		d.config.Tracer.EndSendSpan(span, string(res.Status), res.StatusCode, res.LatencyMs, res.Error)
	}

	if res.OK() {
		d.logger.DebugContext(ctx, "delivered",
			"notification_id", notificationID,
			"destination", redacted,
			"status", res.StatusCode,
			"latency_ms", res.LatencyMs,
		)
	} else {
		d.logger.WarnContext(ctx, "delivery failed",
			"notification_id", notificationID,
			"destination", redacted,
			"status", res.StatusCode,
			"result", res.Status,
			"error", res.Error,
		)
	}

	return res
}
