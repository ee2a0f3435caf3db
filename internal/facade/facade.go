package facade

import (
	"context"
	"fmt"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/router"
)

// API is the ergonomic facade: it builds requests with default
// resolution and delegates to the router, exposing typed fetch_*/stream_*
// methods instead of the router's `any`-typed Route/RouteStream.
//
// Grounded on original_source/laakhay/data/api/data_api.py's DataAPI.
type API struct {
	router   *router.Router
	defaults Defaults
}

// New builds a facade over r using defaults for any request field left
// unset by a convenience method's caller.
func New(r *router.Router, defaults Defaults) *API {
	return &API{router: r, defaults: defaults}
}

func (a *API) builder() *Builder { return NewBuilderWithDefaults(a.defaults) }

// StreamResult is one value produced by a stream_* method: either a typed
// record or a terminal error, mirroring router.StreamItem but narrowed to
// the feature's concrete record type.
type StreamResult[T any] struct {
	Value T
	Err   error
}

func streamAs[T any](ctx context.Context, r *router.Router, req core.DataRequest) (<-chan StreamResult[T], error) {
	raw, err := r.RouteStream(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make(chan StreamResult[T])
	go func() {
		defer close(out)
		for item := range raw {
			if item.Err != nil {
				out <- StreamResult[T]{Err: item.Err}
				continue
			}
			v, ok := item.Record.(T)
			if !ok {
				out <- StreamResult[T]{Err: fmt.Errorf("facade: unexpected record type %T", item.Record)}
				continue
			}
			out <- StreamResult[T]{Value: v}
		}
	}()
	return out, nil
}

// OHLCVOptions carries the optional parameters of FetchOHLCV.
type OHLCVOptions struct {
	Exchange       string
	MarketType     core.MarketType
	MarketVariant  *core.MarketVariant
	InstrumentType core.InstrumentType
	StartTime      *time.Time
	EndTime        *time.Time
	Limit          *int
	MaxChunks      *int
}

// FetchOHLCV implements fetch_ohlcv.
func (a *API) FetchOHLCV(ctx context.Context, symbol string, tf core.Timeframe, opts OHLCVOptions) (core.OHLCV, error) {
	b := a.builder().Feature(core.FeatureOHLCV).Transport(core.TransportREST).Symbol(symbol).Timeframe(tf)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	if opts.StartTime != nil {
		b.StartTime(*opts.StartTime)
	}
	if opts.EndTime != nil {
		b.EndTime(*opts.EndTime)
	}
	if opts.Limit != nil {
		b.Limit(*opts.Limit)
	}
	if opts.MaxChunks != nil {
		b.MaxChunks(*opts.MaxChunks)
	}
	req, err := b.Build()
	if err != nil {
		return core.OHLCV{}, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return core.OHLCV{}, err
	}
	return result.(core.OHLCV), nil
}

// FetchOptions carries the optional parameters shared by the remaining
// one-shot fetch_* methods.
type FetchOptions struct {
	Exchange       string
	MarketType     core.MarketType
	MarketVariant  *core.MarketVariant
	InstrumentType core.InstrumentType
	Limit          *int
	FromID         *string
	Historical     bool
	Period         *string
	StartTime      *time.Time
	EndTime        *time.Time
}

func applyCommon(b *Builder, exchange string, mt core.MarketType, variant *core.MarketVariant, it core.InstrumentType) {
	if exchange != "" {
		b.Exchange(exchange)
	}
	if mt != "" {
		b.MarketType(mt)
	}
	if variant != nil {
		b.MarketVariant(*variant)
	}
	if it != "" {
		b.InstrumentType(it)
	}
}

// FetchOrderBook implements fetch_order_book. depth defaults to 100 when 0.
func (a *API) FetchOrderBook(ctx context.Context, symbol string, depth int, opts FetchOptions) (core.OrderBook, error) {
	b := a.builder().Feature(core.FeatureOrderBook).Transport(core.TransportREST).Symbol(symbol)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	if depth > 0 {
		b.Depth(depth)
	}
	req, err := b.Build()
	if err != nil {
		return core.OrderBook{}, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return core.OrderBook{}, err
	}
	return result.(core.OrderBook), nil
}

// FetchRecentTrades implements fetch_recent_trades (limit defaults to 500
// when 0).
func (a *API) FetchRecentTrades(ctx context.Context, symbol string, limit int, opts FetchOptions) ([]core.Trade, error) {
	if limit == 0 {
		limit = 500
	}
	b := a.builder().Feature(core.FeatureTrades).Transport(core.TransportREST).Symbol(symbol).Limit(limit)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.([]core.Trade), nil
}

// FetchHistoricalTrades implements fetch_historical_trades.
func (a *API) FetchHistoricalTrades(ctx context.Context, symbol string, opts FetchOptions) ([]core.Trade, error) {
	b := a.builder().Feature(core.FeatureHistoricalTrades).Transport(core.TransportREST).Symbol(symbol).Historical(true)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	if opts.Limit != nil {
		b.Limit(*opts.Limit)
	}
	if opts.FromID != nil {
		b.FromID(*opts.FromID)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.([]core.Trade), nil
}

// FetchSymbolsOptions carries fetch_symbols's optional parameters.
type FetchSymbolsOptions struct {
	Exchange   string
	MarketType core.MarketType
	QuoteAsset string
}

// FetchSymbols implements fetch_symbols. Results are not cached; every call
// routes a fresh request (the URM registry's TTL cache holds symbol
// resolutions, not symbol lists).
func (a *API) FetchSymbols(ctx context.Context, opts FetchSymbolsOptions) ([]core.Symbol, error) {
	b := a.builder().Feature(core.FeatureSymbolMetadata).Transport(core.TransportREST)
	applyCommon(b, opts.Exchange, opts.MarketType, nil, "")
	if opts.QuoteAsset != "" {
		b.ExtraParam("quote_asset", opts.QuoteAsset)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.([]core.Symbol), nil
}

// FetchOpenInterest implements fetch_open_interest (limit defaults to 30,
// period to "5m" when unset).
func (a *API) FetchOpenInterest(ctx context.Context, symbol string, opts FetchOptions) ([]core.OpenInterest, error) {
	b := a.builder().Feature(core.FeatureOpenInterest).Transport(core.TransportREST).Symbol(symbol).Historical(opts.Historical)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	period := "5m"
	if opts.Period != nil {
		period = *opts.Period
	}
	b.Period(period)
	limit := 30
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	b.Limit(limit)
	if opts.StartTime != nil {
		b.StartTime(*opts.StartTime)
	}
	if opts.EndTime != nil {
		b.EndTime(*opts.EndTime)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.([]core.OpenInterest), nil
}

// FetchFundingRates implements fetch_funding_rates (limit defaults to
// 100).
func (a *API) FetchFundingRates(ctx context.Context, symbol string, opts FetchOptions) ([]core.FundingRate, error) {
	b := a.builder().Feature(core.FeatureFundingRate).Transport(core.TransportREST).Symbol(symbol)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	limit := 100
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	b.Limit(limit)
	if opts.StartTime != nil {
		b.StartTime(*opts.StartTime)
	}
	if opts.EndTime != nil {
		b.EndTime(*opts.EndTime)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := a.router.Route(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.([]core.FundingRate), nil
}

// StreamOptions carries the optional parameters shared by the stream_*
// methods.
type StreamOptions struct {
	Exchange         string
	MarketType       core.MarketType
	MarketVariant    *core.MarketVariant
	InstrumentType   core.InstrumentType
	OnlyClosed       bool
	ThrottleMs       *int
	DedupeSameCandle bool
	UpdateSpeed      string
	Depth            *int
	Period           string
}

func (a *API) streamBuilder(feature core.Feature, opts StreamOptions) *Builder {
	b := a.builder().Feature(feature).Transport(core.TransportWS)
	applyCommon(b, opts.Exchange, opts.MarketType, opts.MarketVariant, opts.InstrumentType)
	return b
}

// StreamOHLCV implements stream_ohlcv.
func (a *API) StreamOHLCV(ctx context.Context, symbol string, tf core.Timeframe, opts StreamOptions) (<-chan StreamResult[core.StreamingBar], error) {
	b := a.streamBuilder(core.FeatureOHLCV, opts).Symbol(symbol).Timeframe(tf).
		OnlyClosed(opts.OnlyClosed).DedupeSameCandle(opts.DedupeSameCandle)
	if opts.ThrottleMs != nil {
		b.ThrottleMs(*opts.ThrottleMs)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.StreamingBar](ctx, a.router, req)
}

// StreamOHLCVMulti implements stream_ohlcv_multi.
func (a *API) StreamOHLCVMulti(ctx context.Context, symbols []string, tf core.Timeframe, opts StreamOptions) (<-chan StreamResult[core.StreamingBar], error) {
	b := a.streamBuilder(core.FeatureOHLCV, opts).Symbols(symbols).Timeframe(tf).
		OnlyClosed(opts.OnlyClosed).DedupeSameCandle(opts.DedupeSameCandle)
	if opts.ThrottleMs != nil {
		b.ThrottleMs(*opts.ThrottleMs)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.StreamingBar](ctx, a.router, req)
}

// StreamTrades implements stream_trades.
func (a *API) StreamTrades(ctx context.Context, symbol string, opts StreamOptions) (<-chan StreamResult[core.Trade], error) {
	req, err := a.streamBuilder(core.FeatureTrades, opts).Symbol(symbol).Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.Trade](ctx, a.router, req)
}

// StreamTradesMulti implements stream_trades_multi.
func (a *API) StreamTradesMulti(ctx context.Context, symbols []string, opts StreamOptions) (<-chan StreamResult[core.Trade], error) {
	req, err := a.streamBuilder(core.FeatureTrades, opts).Symbols(symbols).Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.Trade](ctx, a.router, req)
}

// StreamOrderBook implements stream_order_book (update_speed defaults to
// "100ms").
func (a *API) StreamOrderBook(ctx context.Context, symbol string, opts StreamOptions) (<-chan StreamResult[core.OrderBook], error) {
	speed := opts.UpdateSpeed
	if speed == "" {
		speed = "100ms"
	}
	b := a.streamBuilder(core.FeatureOrderBook, opts).Symbol(symbol).UpdateSpeed(speed)
	if opts.Depth != nil {
		b.Depth(*opts.Depth)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.OrderBook](ctx, a.router, req)
}

// StreamLiquidations implements stream_liquidations. market_type defaults
// to FUTURES; the feature is symbol-less (liquidation streams fan out
// across the whole market rather than a subscribed symbol set).
func (a *API) StreamLiquidations(ctx context.Context, opts StreamOptions) (<-chan StreamResult[core.Liquidation], error) {
	if opts.MarketType == "" {
		opts.MarketType = core.MarketTypeFutures
	}
	req, err := a.streamBuilder(core.FeatureLiquidations, opts).Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.Liquidation](ctx, a.router, req)
}

// StreamFundingRates implements stream_funding_rates (update_speed
// defaults to "1s").
func (a *API) StreamFundingRates(ctx context.Context, symbols []string, opts StreamOptions) (<-chan StreamResult[core.FundingRate], error) {
	speed := opts.UpdateSpeed
	if speed == "" {
		speed = "1s"
	}
	req, err := a.streamBuilder(core.FeatureFundingRate, opts).Symbols(symbols).UpdateSpeed(speed).Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.FundingRate](ctx, a.router, req)
}

// StreamOpenInterest implements stream_open_interest (period defaults to
// "5m").
func (a *API) StreamOpenInterest(ctx context.Context, symbols []string, opts StreamOptions) (<-chan StreamResult[core.OpenInterest], error) {
	period := opts.Period
	if period == "" {
		period = "5m"
	}
	req, err := a.streamBuilder(core.FeatureOpenInterest, opts).Symbols(symbols).Period(period).Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.OpenInterest](ctx, a.router, req)
}

// StreamMarkPrice implements stream_mark_price (update_speed defaults to
// "1s").
func (a *API) StreamMarkPrice(ctx context.Context, symbols []string, opts StreamOptions) (<-chan StreamResult[core.MarkPrice], error) {
	speed := opts.UpdateSpeed
	if speed == "" {
		speed = "1s"
	}
	req, err := a.streamBuilder(core.FeatureMarkPrice, opts).Symbols(symbols).UpdateSpeed(speed).Build()
	if err != nil {
		return nil, err
	}
	return streamAs[core.MarkPrice](ctx, a.router, req)
}
