package observability

import (
	gu "github.com/xraph/go-utils/metrics"
)

// Metrics holds metric instruments for Herald, backed by any go-utils
// MetricFactory.
type Metrics struct {
	NotificationsTotal gu.Counter
	DraftsMatched      gu.Counter
	DispatchesTotal    gu.Counter
	DispatchLatency    gu.Histogram
	InflightDispatches gu.Gauge
}

// NewMetrics creates Herald metric instruments using the supplied factory.
// Pass metrics.NewMetricsCollector() for standalone usage.
func NewMetrics(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		NotificationsTotal: factory.Counter("herald_notifications_total"),
		DraftsMatched:      factory.Counter("herald_drafts_matched_total"),
		DispatchesTotal:    factory.Counter("herald_dispatches_total"),
		DispatchLatency:    factory.Histogram("herald_dispatch_latency_seconds"),
		InflightDispatches: factory.Gauge("herald_inflight_dispatches"),
	}
}

// RecordNotification counts one Notify invocation by outcome
// ("sent", "suppressed", "failed").
func (m *Metrics) RecordNotification(outcome string, drafts int) {
	m.NotificationsTotal.WithLabels(map[string]string{"outcome": outcome}).Inc()
	for range drafts {
		m.DraftsMatched.Inc()
	}
}

// RecordDispatch records a send with the given status and latency.
func (m *Metrics) RecordDispatch(status string, latencySeconds float64) {
	m.DispatchesTotal.WithLabels(map[string]string{"status": status}).Inc()
	m.DispatchLatency.Observe(latencySeconds)
}
