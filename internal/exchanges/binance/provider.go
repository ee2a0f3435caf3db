package binance

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/engine"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/rest"
	"github.com/quorumfeed/marketdata/internal/router"
	"github.com/quorumfeed/marketdata/internal/wsadapter"
)

// Provider is the Binance provider instance pooled by internal/provider's
// registry, one per (market_type, variant).
type Provider struct {
	marketType core.MarketType
	runner     *rest.Runner
	engine     *engine.Engine
	metrics    *engine.Metrics
	log        zerolog.Logger
	closed     atomic.Bool
}

// NewConstructor builds the provider.Constructor for Binance, sharing one
// engine.Metrics registry across every pooled instance.
func NewConstructor(restCfg rest.RunnerConfig, engineCfg engine.Config, metrics *engine.Metrics, log zerolog.Logger) provider.Constructor {
	return func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (provider.Provider, error) {
		runner := rest.NewRunner(restBaseURL(mt), restCfg, log)
		eng := engine.New(engineCfg, metrics, log)
		return &Provider{marketType: mt, runner: runner, engine: eng, metrics: metrics, log: log}, nil
	}
}

func (p *Provider) Close() error { p.closed.Store(true); return nil }
func (p *Provider) Closed() bool { return p.closed.Load() }

// FetchOHLCV is the REST OHLCV feature handler, paginating through
// ohlcvPerRequestCap-sized windows when the caller's limit exceeds it.
func FetchOHLCV(instance provider.Provider, args map[string]any) (any, error) {
	p, ok := instance.(*Provider)
	if !ok {
		return nil, fmt.Errorf("binance: unexpected provider instance type %T", instance)
	}
	symbol, _ := args["symbol"].(string)
	tf, _ := args["timeframe"].(core.Timeframe)
	limit := 500
	if l, ok := args["limit"].(int); ok && l > 0 {
		limit = l
	}
	maxChunks := 0
	if m, ok := args["max_chunks"].(int); ok {
		maxChunks = m
	}
	tfSeconds, _ := tf.Seconds()
	startTime, _ := args["start_time"].(time.Time)
	if startTime.IsZero() {
		startTime = time.Now().Add(-time.Duration(int64(limit)*tfSeconds) * time.Second)
	}

	bars, err := rest.FetchOHLCVPaginated(
		context.Background(), p.runner, ohlcvSpec(p.marketType), ohlcvAdapter{},
		rest.Params{"symbol": symbol, "timeframe": tf}, tfSeconds, startTime, limit, maxChunks, ohlcvPerRequestCap,
	)
	if err != nil {
		return nil, err
	}
	return core.OHLCV{Meta: core.OHLCVMeta{Symbol: symbol, Timeframe: tf}, Bars: bars}, nil
}

// FetchOrderBook is the REST order-book feature handler.
func FetchOrderBook(instance provider.Provider, args map[string]any) (any, error) {
	p, ok := instance.(*Provider)
	if !ok {
		return nil, fmt.Errorf("binance: unexpected provider instance type %T", instance)
	}
	result, err := p.runner.Do(context.Background(), orderBookSpec(p.marketType), orderBookAdapter{}, rest.Params(args))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchTrades is the REST recent/historical trades feature handler.
func FetchTrades(instance provider.Provider, args map[string]any) (any, error) {
	p, ok := instance.(*Provider)
	if !ok {
		return nil, fmt.Errorf("binance: unexpected provider instance type %T", instance)
	}
	result, err := p.runner.Do(context.Background(), tradesSpec(p.marketType), tradesAdapter{}, rest.Params(args))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StreamOHLCV is the WS OHLCV streaming handler, registered with the
// router separately from the one-shot FeatureHandlers map.
func StreamOHLCV(instance provider.Provider, args map[string]any) (<-chan router.StreamItem, error) {
	p, ok := instance.(*Provider)
	if !ok {
		return nil, fmt.Errorf("binance: unexpected provider instance type %T", instance)
	}
	symbols := symbolsFromArgs(args)
	filters := engine.FilterConfig{}
	if v, ok := args["only_closed"].(bool); ok {
		filters.OnlyClosed = v
	}
	if v, ok := args["dedupe_same_candle"].(bool); ok {
		filters.Dedupe = v
	}
	if v, ok := args["throttle_ms"].(int); ok {
		filters.ThrottleMs = v
	}
	items := p.engine.Stream(context.Background(), "binance", core.FeatureOHLCV, symbols, ohlcvWSSpec(p.marketType), ohlcvMessageAdapter, wsadapter.StreamParams(args), filters)
	return translate(items), nil
}

// StreamTrades is the WS trades streaming handler.
func StreamTrades(instance provider.Provider, args map[string]any) (<-chan router.StreamItem, error) {
	p, ok := instance.(*Provider)
	if !ok {
		return nil, fmt.Errorf("binance: unexpected provider instance type %T", instance)
	}
	symbols := symbolsFromArgs(args)
	items := p.engine.Stream(context.Background(), "binance", core.FeatureTrades, symbols, tradesWSSpec(p.marketType), tradesMessageAdapter, wsadapter.StreamParams(args), engine.FilterConfig{})
	return translate(items), nil
}

func symbolsFromArgs(args map[string]any) []string {
	if symbol, ok := args["symbol"].(string); ok {
		return []string{symbol}
	}
	if symbols, ok := args["symbols"].([]string); ok {
		return symbols
	}
	return nil
}

func translate(items <-chan engine.Item) <-chan router.StreamItem {
	out := make(chan router.StreamItem)
	go func() {
		defer close(out)
		for item := range items {
			out <- router.StreamItem{Record: item.Record, Err: item.Err}
		}
	}()
	return out
}
