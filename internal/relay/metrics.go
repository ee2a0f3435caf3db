package relay

import "github.com/prometheus/client_golang/prometheus"

// PromMetrics are the relay's Prometheus counters.
type PromMetrics struct {
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
}

// NewPromMetrics registers the relay's counters on reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdata_relay_events_published_total",
			Help: "Total events successfully published to a sink.",
		}, []string{"sink"}),
		EventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdata_relay_events_failed_total",
			Help: "Total events that exhausted retries for a sink.",
		}, []string{"sink"}),
	}
	reg.MustRegister(m.EventsPublished, m.EventsFailed)
	return m
}
