// Package router implements the data router: capability validation,
// symbol normalization, provider/handler lookup, and argument construction
// for both one-shot fetches and streaming subscriptions.
//
// Grounded on original_source/laakhay/data/runtime/router.py.
package router

import (
	"context"
	"strings"

	"github.com/quorumfeed/marketdata/internal/capability"
	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/urm"
)

// Router is stateless aside from its injected dependencies; it never
// caches request results.
type Router struct {
	providers      *provider.Registry
	capability     *capability.Registry
	urmRegistry    *urm.Registry
	streamHandlers map[string]map[provider.HandlerKey]StreamHandler
}

// New constructs a Router. Dependencies are always injected explicitly
// (preferred over any global singleton).
func New(providers *provider.Registry, capabilityRegistry *capability.Registry, urmRegistry *urm.Registry) *Router {
	return &Router{providers: providers, capability: capabilityRegistry, urmRegistry: urmRegistry}
}

// Route executes a one-shot fetch.
func (r *Router) Route(ctx context.Context, req core.DataRequest) (any, error) {
	instance, handler, args, err := r.prepare(req)
	if err != nil {
		return nil, err
	}
	return handler.Method(instance, args)
}

// StreamItem is one value produced by RouteStream: either a canonical
// record or a terminal error.
type StreamItem struct {
	Record any
	Err    error
}

// StreamHandler is the shape a WS feature handler's Method must satisfy:
// it returns a channel of StreamItem driven until ctx is cancelled.
type StreamHandler func(instance provider.Provider, args map[string]any) (<-chan StreamItem, error)

// RegisterStreamHandler installs a streaming handler, separate
// from provider.Registry's one-shot FeatureHandlers map because streaming
// handlers return a channel, not a single value. Exchange adapters
// register into this via Router.RegisterStreamHandler at construction
// time.
func (r *Router) RegisterStreamHandler(exchange string, feature core.Feature, handler StreamHandler) {
	if r.streamHandlers == nil {
		r.streamHandlers = make(map[string]map[provider.HandlerKey]StreamHandler)
	}
	if r.streamHandlers[exchange] == nil {
		r.streamHandlers[exchange] = make(map[provider.HandlerKey]StreamHandler)
	}
	r.streamHandlers[exchange][provider.HandlerKey{Feature: feature, Transport: core.TransportWS}] = handler
}

func (r *Router) RouteStream(ctx context.Context, req core.DataRequest) (<-chan StreamItem, error) {
	if req.Transport != core.TransportWS {
		return nil, &core.ValidationError{Message: "route_stream requires transport=ws", Field: "transport"}
	}
	instance, _, args, err := r.prepare(req)
	if err != nil {
		return nil, err
	}
	handlers, ok := r.streamHandlers[req.Exchange]
	if !ok {
		return nil, &core.ProviderError{Message: "no handler"}
	}
	handler, ok := handlers[provider.HandlerKey{Feature: req.Feature, Transport: core.TransportWS}]
	if !ok {
		return nil, &core.ProviderError{Message: "no handler"}
	}
	return handler(instance, args)
}

// Close tears down provider instances owned by this router.
func (r *Router) Close() {
	r.providers.ShutdownInstances()
}

// prepare runs steps 1-5 of the routing algorithm shared by Route and
// RouteStream.
func (r *Router) prepare(req core.DataRequest) (provider.Provider, provider.FeatureHandler, map[string]any, error) {
	// 1. Capability validation.
	instrumentType := req.InstrumentType
	status := r.capability.Supports(req.Feature, req.Transport, req.Exchange, req.MarketType, instrumentType)
	if !status.Supported {
		return nil, provider.FeatureHandler{}, nil, &core.CapabilityError{
			Message: status.Reason,
			Key: &core.CapabilityKey{
				Exchange: req.Exchange, MarketType: req.MarketType, InstrumentType: instrumentType,
				Feature: req.Feature, Transport: req.Transport,
			},
			Status:          &status,
			Recommendations: status.Recommendations,
		}
	}

	// 2. Symbol normalization.
	exchangeSymbol, exchangeSymbols, err := r.resolveSymbols(req)
	if err != nil {
		return nil, provider.FeatureHandler{}, nil, err
	}

	// 3. Provider handle.
	instance, err := r.providers.GetProvider(req.Exchange, req.MarketType, req.MarketVariant, "", "")
	if err != nil {
		return nil, provider.FeatureHandler{}, nil, err
	}

	// 4. Handler lookup (one-shot path only; RouteStream ignores this
	// return value and looks up its own stream handler registry).
	var handler provider.FeatureHandler
	if req.Transport == core.TransportREST {
		handler, err = r.providers.GetFeatureHandler(req.Exchange, req.Feature, req.Transport)
		if err != nil {
			return nil, provider.FeatureHandler{}, nil, err
		}
	}

	// 5. Argument construction.
	args := buildMethodArgs(req, exchangeSymbol, exchangeSymbols)

	return instance, handler, args, nil
}

// resolveSymbols implements step 2: boundary rejection of URM-id strings,
// BASE/QUOTE parsing and uppercasing, SPOT->PERPETUAL promotion under
// FUTURES, and delegation to the exchange URM (or passthrough when the
// exchange has no registered mapper).
func (r *Router) resolveSymbols(req core.DataRequest) (single *string, multi []string, err error) {
	resolveOne := func(raw string) (string, error) {
		if urm.IsURMID(raw) {
			return "", &core.SymbolResolutionError{Message: "URM IDs are rejected at the router boundary; use canonical BASE/QUOTE", Exchange: req.Exchange, Value: raw}
		}
		parts := strings.SplitN(raw, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", &core.SymbolResolutionError{Message: "symbol must be in canonical BASE/QUOTE form", Exchange: req.Exchange, Value: raw}
		}
		base, quote := strings.ToUpper(parts[0]), strings.ToUpper(parts[1])

		instrumentType := req.InstrumentType
		if instrumentType == core.InstrumentSpot && req.MarketType == core.MarketTypeFutures {
			instrumentType = core.InstrumentPerpetual
		}
		spec, err := core.NewInstrumentSpec(base, quote, instrumentType)
		if err != nil {
			return "", &core.SymbolResolutionError{Message: err.Error(), Exchange: req.Exchange, Value: raw}
		}

		if !r.urmRegistry.HasMapper(req.Exchange) {
			return base + quote, nil // legacy passthrough
		}
		return r.urmRegistry.ToExchangeSymbol(req.Exchange, spec, req.MarketType)
	}

	if req.Symbol != nil {
		s, err := resolveOne(*req.Symbol)
		if err != nil {
			return nil, nil, err
		}
		return &s, nil, nil
	}
	if len(req.Symbols) > 0 {
		out := make([]string, 0, len(req.Symbols))
		for _, raw := range req.Symbols {
			s, err := resolveOne(raw)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, s)
		}
		return nil, out, nil
	}
	return nil, nil, nil
}

// buildMethodArgs implements step 5's keyword-argument construction.
func buildMethodArgs(req core.DataRequest, single *string, multi []string) map[string]any {
	args := make(map[string]any)

	if single != nil {
		args["symbol"] = *single
	} else if len(multi) == 1 {
		args["symbol"] = multi[0]
	} else if len(multi) > 1 {
		args["symbols"] = multi
	}

	if req.Timeframe != nil {
		args["timeframe"] = *req.Timeframe
	}
	if req.StartTime != nil {
		args["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		args["end_time"] = *req.EndTime
	}
	if req.Limit != nil {
		args["limit"] = *req.Limit
	}
	if req.MaxChunks != nil {
		args["max_chunks"] = *req.MaxChunks
	}
	if req.Period != nil {
		args["period"] = *req.Period
	}
	if req.UpdateSpeed != nil {
		args["update_speed"] = *req.UpdateSpeed
	}
	args["only_closed"] = req.OnlyClosed
	if req.ThrottleMs != nil {
		args["throttle_ms"] = *req.ThrottleMs
	}
	args["dedupe_same_candle"] = req.DedupeSameCandle
	args["historical"] = req.Historical
	if req.FromID != nil {
		args["from_id"] = *req.FromID
	}
	if req.Depth != nil {
		if req.Feature == core.FeatureOrderBook {
			args["limit"] = *req.Depth // depth renamed to limit for order-book handlers
		} else {
			args["depth"] = *req.Depth
		}
	}
	for k, v := range req.ExtraParams {
		args[k] = v
	}
	return args
}
