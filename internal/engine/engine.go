// Package engine implements the streaming engine: chunking N symbols into
// bounded WebSocket connections, a per-chunk reader state machine with
// exponential-backoff reconnection, a fan-in queue, and the only_closed/
// dedupe/throttle filter chain.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/wsadapter"
)

// Config carries the streaming engine's configuration options.
type Config struct {
	PingInterval       time.Duration
	PingTimeout        time.Duration
	CloseTimeout       time.Duration
	MaxInboundQueue    int
	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
	Jitter             float64
	SubscribeAckBudget time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		PingInterval:       30 * time.Second,
		PingTimeout:        10 * time.Second,
		CloseTimeout:       10 * time.Second,
		MaxInboundQueue:    1024,
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  30 * time.Second,
		Jitter:             0.2,
		SubscribeAckBudget: 2 * time.Second,
	}
}

// Item is one value delivered on a Stream's output channel: either a parsed
// canonical record, or a terminal, unrecoverable error (a malformed spec,
// for example) that ends that chunk's reader.
type Item struct {
	Record any
	Err    error
}

// Engine runs streaming subscriptions.
type Engine struct {
	cfg     Config
	dialer  *websocket.Dialer
	metrics *Metrics
	log     zerolog.Logger
}

// New builds an Engine. metrics may be nil to disable metrics recording
// (useful in tests).
func New(cfg Config, metrics *Metrics, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
		metrics: metrics,
		log:     log,
	}
}

// Stream subscribes to symbols on spec/adapter and returns a channel of
// Items. The channel closes once every reader has terminated, which only
// happens when ctx is cancelled (or a reader hits an unrecoverable error).
// Fast path: a single chunk runs one reader feeding the channel directly.
func (e *Engine) Stream(
	ctx context.Context,
	exchange string,
	feature core.Feature,
	symbols []string,
	spec wsadapter.EndpointSpec,
	adapter wsadapter.MessageAdapter,
	params wsadapter.StreamParams,
	filters FilterConfig,
) <-chan Item {
	chunks := Chunk(symbols, spec.MaxStreamsPerConnection)
	out := make(chan Item, e.cfg.MaxInboundQueue)
	fstate := newFilterState()

	done := make(chan struct{}, len(chunks))
	for _, chunk := range chunks {
		go func(chunk []string) {
			e.runReader(ctx, exchange, feature, chunk, spec, adapter, params, filters, fstate, out)
			done <- struct{}{}
		}(chunk)
	}
	go func() {
		for range chunks {
			<-done
		}
		close(out)
	}()
	return out
}

// runReader drives the CONNECTING -> SUBSCRIBING -> READING -> reconnect
// state machine for one chunk until ctx is cancelled.
func (e *Engine) runReader(
	ctx context.Context,
	exchange string,
	feature core.Feature,
	symbols []string,
	spec wsadapter.EndpointSpec,
	adapter wsadapter.MessageAdapter,
	params wsadapter.StreamParams,
	filters FilterConfig,
	fstate *filterState,
	out chan<- Item,
) {
	delay := e.cfg.ReconnectBaseDelay

	for {
		if ctx.Err() != nil {
			return
		}

		conn, streamNames, err := e.connect(ctx, symbols, spec, params)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.log.Error().Err(err).Str("exchange", exchange).Str("feature", string(feature)).Msg("ws connect failed")
			select {
			case out <- Item{Err: &core.ProviderError{Message: fmt.Sprintf("ws connect failed: %v", err), Cause: err}}:
			case <-ctx.Done():
			}
			return
		}
		e.setActive(exchange, feature, 1)

		if err := e.subscribe(conn, streamNames, spec); err != nil {
			e.log.Warn().Err(err).Msg("ws subscribe frame send failed")
		}

		connectedAt := time.Now()
		readErr := e.readLoop(ctx, conn, adapter, filters, fstate, out, exchange, feature)
		conn.Close()
		e.setActive(exchange, feature, -1)

		if ctx.Err() != nil {
			return
		}
		if readErr != nil {
			e.log.Debug().Err(readErr).Str("exchange", exchange).Msg("ws connection closed, reconnecting")
		}
		if e.metrics != nil {
			e.metrics.ReconnectsTotal.WithLabelValues(exchange, string(feature)).Inc()
		}

		if time.Since(connectedAt) >= e.cfg.PingInterval {
			delay = e.cfg.ReconnectBaseDelay
		}

		select {
		case <-time.After(jittered(delay, e.cfg.Jitter)):
		case <-ctx.Done():
			return
		}
		delay = nextDelay(delay, e.cfg.ReconnectBaseDelay, e.cfg.ReconnectMaxDelay)
	}
}

func (e *Engine) setActive(exchange string, feature core.Feature, delta float64) {
	if e.metrics == nil {
		return
	}
	g := e.metrics.ActiveConnections.WithLabelValues(exchange, string(feature))
	if delta > 0 {
		g.Inc()
	} else {
		g.Dec()
	}
}

func (e *Engine) connect(ctx context.Context, symbols []string, spec wsadapter.EndpointSpec, params wsadapter.StreamParams) (*websocket.Conn, []string, error) {
	streamNames := make([]string, 0, len(symbols))
	if spec.BuildStreamName != nil {
		for _, sym := range symbols {
			name, err := spec.BuildStreamName(sym, params)
			if err != nil {
				return nil, nil, fmt.Errorf("build_stream_name: %w", err)
			}
			streamNames = append(streamNames, name)
		}
	}

	var url string
	var err error
	if len(streamNames) == 1 && spec.BuildSingleURL != nil {
		url, err = spec.BuildSingleURL(streamNames[0])
	} else if spec.BuildCombinedURL != nil {
		url, err = spec.BuildCombinedURL(streamNames)
	} else if spec.BuildSingleURL != nil {
		url, err = spec.BuildSingleURL(streamNames[0])
	} else {
		return nil, nil, fmt.Errorf("endpoint spec %s declares no URL builder", spec.ID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("build url: %w", err)
	}

	conn, _, err := e.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, nil, err
	}
	return conn, streamNames, nil
}

func (e *Engine) subscribe(conn *websocket.Conn, streamNames []string, spec wsadapter.EndpointSpec) error {
	if spec.SubscribeFrames == nil {
		return nil
	}
	frames, err := spec.SubscribeFrames(streamNames)
	if err != nil {
		return err
	}
	for _, frame := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return err
		}
	}
	return nil
}

// readLoop owns the connection's ping keepalive and inbound message
// decoding; it returns when the connection closes or ctx is cancelled.
func (e *Engine) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	adapter wsadapter.MessageAdapter,
	filters FilterConfig,
	fstate *filterState,
	out chan<- Item,
	exchange string,
	feature core.Feature,
) error {
	closeOnCancel := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-closeOnCancel:
		}
	}()
	defer close(closeOnCancel)

	conn.SetReadDeadline(time.Now().Add(e.cfg.PingInterval + e.cfg.PingTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(e.cfg.PingInterval + e.cfg.PingTimeout))
		return nil
	})

	pingTicker := time.NewTicker(e.cfg.PingInterval)
	defer pingTicker.Stop()
	go func() {
		for range pingTicker.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(e.cfg.PingTimeout)); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if !adapter.IsRelevant(raw) {
			continue
		}
		records, err := adapter.Parse(raw)
		if err != nil {
			e.log.Debug().Err(err).Msg("ws message parse failed, discarding")
			continue
		}
		now := time.Now()
		for _, record := range records {
			if !fstate.apply(record, filters, now) {
				if e.metrics != nil {
					e.metrics.RecordsThrottled.WithLabelValues(exchange, string(feature)).Inc()
				}
				continue
			}
			select {
			case out <- Item{Record: record}:
				if e.metrics != nil {
					e.metrics.RecordsEmitted.WithLabelValues(exchange, string(feature)).Inc()
				}
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func nextDelay(current, base, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		next = max
	}
	if next < base {
		next = base
	}
	return next
}

func jittered(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}
	factor := 1 - jitter + rand.Float64()*2*jitter
	result := time.Duration(float64(d) * factor)
	if result < 500*time.Millisecond {
		result = 500 * time.Millisecond
	}
	return result
}
