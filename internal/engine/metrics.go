package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the streaming-engine counters.
type Metrics struct {
	ReconnectsTotal   *prometheus.CounterVec
	RecordsEmitted    *prometheus.CounterVec
	RecordsThrottled  *prometheus.CounterVec
	RecordsDeduped    *prometheus.CounterVec
	ActiveConnections *prometheus.GaugeVec
}

// NewMetrics registers the engine's metrics on reg. Pass a fresh
// prometheus.Registry in tests to avoid collisions with the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReconnectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdata_engine_reconnects_total",
			Help: "Total WebSocket reconnect attempts by exchange and feature.",
		}, []string{"exchange", "feature"}),
		RecordsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdata_engine_records_emitted_total",
			Help: "Total records emitted to stream consumers.",
		}, []string{"exchange", "feature"}),
		RecordsThrottled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdata_engine_records_throttled_total",
			Help: "Total records dropped by the stream filters (only_closed, dedupe or throttle).",
		}, []string{"exchange", "feature"}),
		RecordsDeduped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketdata_engine_records_deduped_total",
			Help: "Not incremented by the engine; dedupe drops are counted in marketdata_engine_records_throttled_total.",
		}, []string{"exchange", "feature"}),
		ActiveConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketdata_engine_active_connections",
			Help: "Currently open WebSocket connections owned by the engine.",
		}, []string{"exchange", "feature"}),
	}
	reg.MustRegister(m.ReconnectsTotal, m.RecordsEmitted, m.RecordsThrottled, m.RecordsDeduped, m.ActiveConnections)
	return m
}
