package core

import "time"

// DataRequest is the single strongly-typed request the router accepts.
// Immutable once built.
type DataRequest struct {
	Feature        Feature
	Transport      Transport
	Exchange       string
	MarketType     MarketType
	MarketVariant  *MarketVariant
	InstrumentType InstrumentType

	Symbol  *string
	Symbols []string

	Timeframe       *Timeframe
	StartTime       *time.Time
	EndTime         *time.Time
	Limit           *int
	MaxChunks       *int
	Depth           *int
	Period          *string
	UpdateSpeed     *string
	OnlyClosed      bool
	ThrottleMs      *int
	DedupeSameCandle bool
	Historical      bool
	FromID          *string

	ExtraParams map[string]any
}

// symbollessFeatures are features that do not require symbol/symbols.
var symbollessFeatures = map[Feature]bool{
	FeatureLiquidations:   true,
	FeatureSymbolMetadata: true,
}

// Validate enforces the construction invariants: the
// caller should prefer the request builder (internal/facade), which calls
// this before returning.
func (r DataRequest) Validate() error {
	if r.Symbol != nil && len(r.Symbols) > 0 {
		return &ValidationError{Message: "symbol and symbols are mutually exclusive", Field: "symbol"}
	}
	if r.Symbol == nil && len(r.Symbols) == 0 && !symbollessFeatures[r.Feature] {
		return &ValidationError{Message: "symbol or symbols is required for this feature", Field: "symbol"}
	}
	if r.Feature == FeatureOHLCV && r.Transport == TransportREST && r.Timeframe == nil {
		return &ValidationError{Message: "timeframe is required for OHLCV over REST", Field: "timeframe"}
	}
	return nil
}

// WithOrderBookDefaults returns a copy of r with depth defaulted to 100 when
// the feature is ORDER_BOOK and depth is unset.
func (r DataRequest) WithOrderBookDefaults() DataRequest {
	if r.Feature == FeatureOrderBook && r.Depth == nil {
		d := 100
		r.Depth = &d
	}
	return r
}
