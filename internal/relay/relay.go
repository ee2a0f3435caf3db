// Package relay implements the stream relay: a producer-consumer
// pipeline that drives a router stream into a bounded buffer and fans out
// each event to registered sinks with backpressure and per-sink retry.
//
// Grounded on original_source/laakhay/data/runtime/relay.py.
package relay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/router"
)

// Sink is a downstream consumer of relayed events.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event any) error
	Close() error
}

// BackpressurePolicy controls what happens when the relay's buffer is
// full.
type BackpressurePolicy string

const (
	PolicyDrop   BackpressurePolicy = "drop"
	PolicyBlock  BackpressurePolicy = "block"
	PolicyBuffer BackpressurePolicy = "buffer"
)

// Metrics mirrors the original's RelayMetrics dataclass.
type Metrics struct {
	EventsPublished     atomic.Int64
	EventsDropped       atomic.Int64
	EventsFailed        atomic.Int64
	ReconnectionAttempts atomic.Int64
	LastEventTimeUnixMs atomic.Int64
	SinkLagSeconds      atomic.Int64 // not updated by the relay; always reads zero
}

// Config carries the relay's configuration options.
type Config struct {
	MaxBufferSize      int
	BackpressurePolicy BackpressurePolicy
	MaxRetries         int
	RetryDelay         time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxBufferSize == 0 {
		c.MaxBufferSize = 1000
	}
	if c.BackpressurePolicy == "" {
		c.BackpressurePolicy = PolicyDrop
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	return c
}

// Relay subscribes to a router stream and fans events out to sinks.
type Relay struct {
	router  *router.Router
	cfg     Config
	log     zerolog.Logger
	metrics Metrics
	prom    *PromMetrics

	mu    sync.RWMutex
	sinks []Sink

	id string
}

// New builds a Relay driving router's streams. prom may be nil to disable
// Prometheus export.
func New(r *router.Router, cfg Config, log zerolog.Logger, prom *PromMetrics) *Relay {
	return &Relay{router: r, cfg: cfg.withDefaults(), log: log, id: uuid.NewString(), prom: prom}
}

// AddSink registers a sink; fan-out order follows registration order.
func (relay *Relay) AddSink(s Sink) {
	relay.mu.Lock()
	defer relay.mu.Unlock()
	relay.sinks = append(relay.sinks, s)
}

// RemoveSink unregisters a sink by name.
func (relay *Relay) RemoveSink(name string) {
	relay.mu.Lock()
	defer relay.mu.Unlock()
	out := relay.sinks[:0]
	for _, s := range relay.sinks {
		if s.Name() != name {
			out = append(out, s)
		}
	}
	relay.sinks = out
}

// Metrics returns a snapshot of the relay's counters.
func (relay *Relay) Metrics() Metrics {
	return relay.metrics
}

// Relay drives req's stream through the buffer/backpressure/fan-out
// pipeline until ctx is cancelled. Returns once the publisher has drained
// and every sink has been closed.
func (relay *Relay) Relay(ctx context.Context, req core.DataRequest) error {
	stream, err := relay.router.RouteStream(ctx, req)
	if err != nil {
		return err
	}

	buffer := make(chan any, relay.cfg.MaxBufferSize)
	publishDone := make(chan struct{})
	go func() {
		defer close(publishDone)
		relay.publishLoop(ctx, buffer)
	}()

	for item := range stream {
		if item.Err != nil {
			relay.log.Error().Err(item.Err).Msg("stream item error, relay continuing")
			continue
		}
		relay.enqueue(ctx, buffer, item.Record)
	}

	close(buffer)
	<-publishDone
	return relay.Stop()
}

func (relay *Relay) enqueue(ctx context.Context, buffer chan any, event any) {
	switch relay.cfg.BackpressurePolicy {
	case PolicyBlock:
		select {
		case buffer <- event:
		case <-ctx.Done():
		}
	case PolicyBuffer:
		select {
		case buffer <- event:
		default:
			relay.metrics.EventsDropped.Add(1)
		}
	default: // drop
		if len(buffer) >= cap(buffer) {
			relay.metrics.EventsDropped.Add(1)
			return
		}
		select {
		case buffer <- event:
		default:
			relay.metrics.EventsDropped.Add(1)
		}
	}
}

// publishLoop consumes the buffer and fans each event out to every sink
// sequentially. A single sink's failure never stops the relay or blocks
// delivery to the others.
func (relay *Relay) publishLoop(ctx context.Context, buffer <-chan any) {
	for event := range buffer {
		relay.metrics.LastEventTimeUnixMs.Store(time.Now().UnixMilli())

		relay.mu.RLock()
		sinks := make([]Sink, len(relay.sinks))
		copy(sinks, relay.sinks)
		relay.mu.RUnlock()

		for _, sink := range sinks {
			if err := relay.publishWithRetry(ctx, sink, event); err != nil {
				relay.metrics.EventsFailed.Add(1)
				if relay.prom != nil {
					relay.prom.EventsFailed.WithLabelValues(sink.Name()).Inc()
				}
				relay.log.Warn().Err(err).Str("sink", sink.Name()).Msg("relay: sink exhausted retries, dropping event for this sink")
				continue
			}
			relay.metrics.EventsPublished.Add(1)
			if relay.prom != nil {
				relay.prom.EventsPublished.WithLabelValues(sink.Name()).Inc()
			}
		}
	}
}

func (relay *Relay) publishWithRetry(ctx context.Context, sink Sink, event any) error {
	var lastErr error
	for attempt := 0; attempt <= relay.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(relay.cfg.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := sink.Publish(ctx, event); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return &core.RelayError{SinkName: sink.Name(), ConsecutiveFailures: relay.cfg.MaxRetries + 1, Cause: lastErr}
}

// Stop closes every sink, logging (not raising) individual close errors.
// Idempotent and cooperative.
func (relay *Relay) Stop() error {
	relay.mu.RLock()
	sinks := make([]Sink, len(relay.sinks))
	copy(sinks, relay.sinks)
	relay.mu.RUnlock()

	var firstErr error
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			relay.log.Warn().Err(err).Str("sink", sink.Name()).Msg("sink close error")
			if firstErr == nil {
				firstErr = fmt.Errorf("closing sink %s: %w", sink.Name(), err)
			}
		}
	}
	return firstErr
}
