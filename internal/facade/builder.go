// Package facade implements the ergonomic entry point: a fluent
// DataRequest builder with default resolution, and fetch_*/stream_*
// convenience methods that delegate to the router.
//
// Grounded on original_source/laakhay/data/api/request_builder.py and
// original_source/laakhay/data/api/data_api.py.
package facade

import (
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
)

// Defaults carries the facade-wide fallbacks a Builder resolves against
// when a field is left unset, mirroring APIRequestBuilder.with_defaults.
type Defaults struct {
	Exchange       string
	MarketType     core.MarketType
	MarketVariant  *core.MarketVariant
	InstrumentType core.InstrumentType
}

// Builder constructs a core.DataRequest via method chaining, applying
// Defaults for any field left unset at Build() time.
type Builder struct {
	defaults Defaults
	req      core.DataRequest
}

// NewBuilder starts an empty builder with no defaults; every required
// field must be set explicitly before Build().
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderWithDefaults starts a builder pre-seeded with facade-wide
// fallbacks, matching APIRequestBuilder.with_defaults.
func NewBuilderWithDefaults(d Defaults) *Builder {
	return &Builder{defaults: d}
}

func (b *Builder) Feature(f core.Feature) *Builder { b.req.Feature = f; return b }

func (b *Builder) Transport(t core.Transport) *Builder { b.req.Transport = t; return b }

func (b *Builder) Exchange(exchange string) *Builder { b.req.Exchange = exchange; return b }

func (b *Builder) MarketType(mt core.MarketType) *Builder { b.req.MarketType = mt; return b }

func (b *Builder) MarketVariant(v core.MarketVariant) *Builder { b.req.MarketVariant = &v; return b }

func (b *Builder) InstrumentType(it core.InstrumentType) *Builder {
	b.req.InstrumentType = it
	return b
}

func (b *Builder) Symbol(symbol string) *Builder { b.req.Symbol = &symbol; return b }

func (b *Builder) Symbols(symbols []string) *Builder { b.req.Symbols = symbols; return b }

func (b *Builder) Timeframe(tf core.Timeframe) *Builder { b.req.Timeframe = &tf; return b }

func (b *Builder) StartTime(t time.Time) *Builder { b.req.StartTime = &t; return b }

func (b *Builder) EndTime(t time.Time) *Builder { b.req.EndTime = &t; return b }

func (b *Builder) Limit(n int) *Builder { b.req.Limit = &n; return b }

func (b *Builder) MaxChunks(n int) *Builder { b.req.MaxChunks = &n; return b }

func (b *Builder) Depth(n int) *Builder { b.req.Depth = &n; return b }

func (b *Builder) Period(p string) *Builder { b.req.Period = &p; return b }

func (b *Builder) UpdateSpeed(s string) *Builder { b.req.UpdateSpeed = &s; return b }

func (b *Builder) OnlyClosed(v bool) *Builder { b.req.OnlyClosed = v; return b }

func (b *Builder) ThrottleMs(ms int) *Builder { b.req.ThrottleMs = &ms; return b }

func (b *Builder) DedupeSameCandle(v bool) *Builder { b.req.DedupeSameCandle = v; return b }

func (b *Builder) Historical(v bool) *Builder { b.req.Historical = v; return b }

func (b *Builder) FromID(id string) *Builder { b.req.FromID = &id; return b }

func (b *Builder) ExtraParam(key string, value any) *Builder {
	if b.req.ExtraParams == nil {
		b.req.ExtraParams = map[string]any{}
	}
	b.req.ExtraParams[key] = value
	return b
}

// Build applies any unset defaults, enforces required fields, runs
// core.DataRequest.Validate, and returns the immutable request. Missing
// required fields and invariant violations both surface as
// *core.ValidationError.
func (b *Builder) Build() (core.DataRequest, error) {
	req := b.req

	if req.Exchange == "" && b.defaults.Exchange != "" {
		req.Exchange = b.defaults.Exchange
	}
	if req.MarketType == "" && b.defaults.MarketType != "" {
		req.MarketType = b.defaults.MarketType
	}
	if req.MarketVariant == nil && b.defaults.MarketVariant != nil {
		req.MarketVariant = b.defaults.MarketVariant
	}
	if req.InstrumentType == "" {
		if b.defaults.InstrumentType != "" {
			req.InstrumentType = b.defaults.InstrumentType
		} else {
			req.InstrumentType = core.InstrumentSpot
		}
	}

	if req.Feature == "" {
		return core.DataRequest{}, &core.ValidationError{Message: "feature is required", Field: "feature"}
	}
	if req.Transport == "" {
		return core.DataRequest{}, &core.ValidationError{Message: "transport is required", Field: "transport"}
	}
	if req.Exchange == "" {
		return core.DataRequest{}, &core.ValidationError{Message: "exchange must be provided (no default set)", Field: "exchange"}
	}
	if req.MarketType == "" {
		return core.DataRequest{}, &core.ValidationError{Message: "market_type must be provided (no default set)", Field: "market_type"}
	}

	req = req.WithOrderBookDefaults()
	if err := req.Validate(); err != nil {
		return core.DataRequest{}, err
	}
	return req, nil
}
