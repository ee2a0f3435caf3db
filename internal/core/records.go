package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one OHLCV candle.
type Bar struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	IsClosed  bool
}

// OHLCVMeta describes the series a slice of Bars belongs to.
type OHLCVMeta struct {
	Symbol    string
	Timeframe Timeframe
}

// OHLCV is a fetched bar series with its describing metadata.
type OHLCV struct {
	Meta OHLCVMeta
	Bars []Bar
}

// StreamingBar is a Bar tagged with the symbol it belongs to, emitted by
// streaming OHLCV subscriptions.
type StreamingBar struct {
	Bar
	Symbol string
}

// Trade is one executed trade.
type Trade struct {
	Symbol        string
	TradeID       *string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	QuoteQuantity decimal.Decimal
	Timestamp     time.Time
	IsBuyerMaker  bool
	IsBestMatch   *bool
}

// PriceLevel is one (price, quantity) order-book level.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// OrderBook is a depth snapshot. Bids are sorted descending by price, asks
// ascending; an empty side is represented with a single (0,0) placeholder
// rather than an empty slice.
type OrderBook struct {
	Symbol       string
	LastUpdateID int64
	Bids         []PriceLevel
	Asks         []PriceLevel
	Timestamp    time.Time
}

// FundingRate is one funding-rate observation.
type FundingRate struct {
	Symbol       string
	FundingTime  time.Time
	FundingRate  decimal.Decimal
	MarkPrice    *decimal.Decimal
}

// OpenInterest is one open-interest observation.
type OpenInterest struct {
	Symbol            string
	Timestamp         time.Time
	OpenInterest      decimal.Decimal
	OpenInterestValue *decimal.Decimal
}

// MarkPrice is one mark-price observation.
type MarkPrice struct {
	Symbol               string
	MarkPrice            decimal.Decimal
	IndexPrice           *decimal.Decimal
	EstimatedSettlePrice *decimal.Decimal
	LastFundingRate      *decimal.Decimal
	NextFundingTime      *time.Time
	Timestamp            time.Time
}

// Liquidation is one forced-liquidation order report.
type Liquidation struct {
	Symbol               string
	Timestamp            time.Time
	Side                 string
	OrderType            string
	TimeInForce          string
	OriginalQuantity     decimal.Decimal
	Price                decimal.Decimal
	AveragePrice         decimal.Decimal
	OrderStatus          string
	LastFilledQuantity   decimal.Decimal
	AccumulatedQuantity  decimal.Decimal
}

// Symbol describes one exchange-listed instrument.
type Symbol struct {
	Symbol       string
	BaseAsset    string
	QuoteAsset   string
	ContractType string
	Metadata     map[string]string
}
