// Package core defines the canonical value types shared by every layer of
// the market-data access layer: instrument classification, timeframes, and
// the immutable instrument specification that the URM and router operate
// on.
package core

import (
	"fmt"
	"strings"
)

// Feature identifies a class of market data.
type Feature string

const (
	FeatureOHLCV             Feature = "ohlcv"
	FeatureOrderBook         Feature = "order_book"
	FeatureTrades            Feature = "trades"
	FeatureHistoricalTrades  Feature = "historical_trades"
	FeatureLiquidations      Feature = "liquidations"
	FeatureOpenInterest      Feature = "open_interest"
	FeatureFundingRate       Feature = "funding_rate"
	FeatureMarkPrice         Feature = "mark_price"
	FeatureSymbolMetadata    Feature = "symbol_metadata"
	FeatureHealth            Feature = "health"
)

// FuturesOnlyFeatures lists features the registry always marks unsupported
// on SPOT instruments.
var FuturesOnlyFeatures = map[Feature]bool{
	FeatureLiquidations: true,
	FeatureOpenInterest: true,
	FeatureFundingRate:  true,
	FeatureMarkPrice:    true,
}

// Transport is the wire transport used to reach a feature.
type Transport string

const (
	TransportREST Transport = "rest"
	TransportWS   Transport = "ws"
)

// MarketType is the coarse market classification.
type MarketType string

const (
	MarketTypeSpot    MarketType = "spot"
	MarketTypeFutures MarketType = "futures"
	MarketTypeOptions MarketType = "options"
	MarketTypeEquity  MarketType = "equity"
	MarketTypeFX      MarketType = "fx"
)

// MarketVariant refines MarketType, mainly for FUTURES.
type MarketVariant string

const (
	VariantSpot            MarketVariant = "spot"
	VariantOptions         MarketVariant = "options"
	VariantEquity          MarketVariant = "equity"
	VariantLinearPerp      MarketVariant = "linear_perp"
	VariantInversePerp     MarketVariant = "inverse_perp"
	VariantLinearDelivery  MarketVariant = "linear_delivery"
	VariantInverseDelivery MarketVariant = "inverse_delivery"
)

// ToMarketType projects a variant to its coarse market type. Total function.
func (v MarketVariant) ToMarketType() MarketType {
	switch v {
	case VariantSpot:
		return MarketTypeSpot
	case VariantOptions:
		return MarketTypeOptions
	case VariantEquity:
		return MarketTypeEquity
	case VariantLinearPerp, VariantInversePerp, VariantLinearDelivery, VariantInverseDelivery:
		return MarketTypeFutures
	default:
		return MarketTypeSpot
	}
}

// DefaultVariant returns the default MarketVariant for a MarketType.
func DefaultVariant(mt MarketType) MarketVariant {
	switch mt {
	case MarketTypeFutures:
		return VariantLinearPerp
	case MarketTypeOptions:
		return VariantOptions
	case MarketTypeEquity:
		return VariantEquity
	default:
		return VariantSpot
	}
}

// FromMarketType resolves a variant for mt, using def when mt doesn't imply
// a unique variant (i.e. mt is FUTURES and def is a futures variant).
func FromMarketType(mt MarketType, def *MarketVariant) MarketVariant {
	if def != nil && def.ToMarketType() == mt {
		return *def
	}
	return DefaultVariant(mt)
}

// InstrumentType is the closed set of instrument kinds.
type InstrumentType string

const (
	InstrumentSpot      InstrumentType = "spot"
	InstrumentPerpetual InstrumentType = "perpetual"
	InstrumentFuture    InstrumentType = "future"
	InstrumentOption    InstrumentType = "option"
	InstrumentMove      InstrumentType = "move"
	InstrumentBasket    InstrumentType = "basket"
)

// Timeframe is a closed, ordered bar-duration label.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF3m  Timeframe = "3m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF2h  Timeframe = "2h"
	TF4h  Timeframe = "4h"
	TF6h  Timeframe = "6h"
	TF8h  Timeframe = "8h"
	TF12h Timeframe = "12h"
	TF1d  Timeframe = "1d"
	TF3d  Timeframe = "3d"
	TF1w  Timeframe = "1w"
	TF1M  Timeframe = "1M"
)

var timeframeSeconds = map[Timeframe]int64{
	TF1m: 60, TF3m: 180, TF5m: 300, TF15m: 900, TF30m: 1800,
	TF1h: 3600, TF2h: 7200, TF4h: 14400, TF6h: 21600, TF8h: 28800, TF12h: 43200,
	TF1d: 86400, TF3d: 259200, TF1w: 604800, TF1M: 2592000,
}

// Seconds returns the timeframe's duration in seconds and whether the
// timeframe is recognized.
func (t Timeframe) Seconds() (int64, bool) {
	s, ok := timeframeSeconds[t]
	return s, ok
}

// OptionType is the closed set for InstrumentSpec.metadata["option_type"].
type OptionType string

const (
	OptionCall OptionType = "C"
	OptionPut  OptionType = "P"
)

// InstrumentSpec is an immutable, venue-independent instrument description.
type InstrumentSpec struct {
	Base           string
	Quote          string
	InstrumentType InstrumentType
	Expiry         *string // YYYYMMDD, set for FUTURE/OPTION with a delivery date
	Strike         *string
	ContractSize   *string
	Metadata       map[string]string
}

// NewInstrumentSpec validates and constructs an InstrumentSpec per the
// invariants.
func NewInstrumentSpec(base, quote string, it InstrumentType, opts ...SpecOption) (InstrumentSpec, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return InstrumentSpec{}, fmt.Errorf("instrument spec: base and quote must be nonempty")
	}
	spec := InstrumentSpec{Base: base, Quote: quote, InstrumentType: it, Metadata: map[string]string{}}
	for _, opt := range opts {
		opt(&spec)
	}
	if it == InstrumentOption {
		if spec.Strike == nil || spec.Expiry == nil {
			return InstrumentSpec{}, fmt.Errorf("instrument spec: option requires strike and expiry")
		}
		ot := OptionType(spec.Metadata["option_type"])
		if ot != OptionCall && ot != OptionPut {
			return InstrumentSpec{}, fmt.Errorf("instrument spec: option requires metadata.option_type in {C,P}")
		}
	}
	return spec, nil
}

// SpecOption mutates an InstrumentSpec under construction.
type SpecOption func(*InstrumentSpec)

func WithExpiry(expiry string) SpecOption {
	return func(s *InstrumentSpec) { s.Expiry = &expiry }
}

func WithStrike(strike string) SpecOption {
	return func(s *InstrumentSpec) { s.Strike = &strike }
}

func WithContractSize(size string) SpecOption {
	return func(s *InstrumentSpec) { s.ContractSize = &size }
}

func WithMetadata(key, value string) SpecOption {
	return func(s *InstrumentSpec) {
		if s.Metadata == nil {
			s.Metadata = map[string]string{}
		}
		s.Metadata[key] = value
	}
}

// PinnedExchange returns metadata.exchange, if set.
func (s InstrumentSpec) PinnedExchange() (string, bool) {
	v, ok := s.Metadata["exchange"]
	return v, ok
}

// Equal reports whether two specs are value-equal.
func (s InstrumentSpec) Equal(o InstrumentSpec) bool {
	if s.Base != o.Base || s.Quote != o.Quote || s.InstrumentType != o.InstrumentType {
		return false
	}
	if ptrStr(s.Expiry) != ptrStr(o.Expiry) || ptrStr(s.Strike) != ptrStr(o.Strike) {
		return false
	}
	if len(s.Metadata) != len(o.Metadata) {
		return false
	}
	for k, v := range s.Metadata {
		if o.Metadata[k] != v {
			return false
		}
	}
	return true
}

func ptrStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s InstrumentSpec) String() string {
	return fmt.Sprintf("%s/%s:%s", s.Base, s.Quote, s.InstrumentType)
}
