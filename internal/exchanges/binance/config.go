// Package binance implements the Binance exchange adapter: REST and WS
// endpoint specs, response/message adapters, the URM mapper, and the
// provider registration wiring into internal/provider and internal/router.
//
// Grounded on original_source/laakhay/data/connectors/binance/config.py and
// .../ws/endpoints/ohlcv.py.
package binance

import "github.com/quorumfeed/marketdata/internal/core"

// BaseURLs are Binance's market-specific REST hosts: spot trades against
// api.binance.com, linear futures against fapi.binance.com.
var baseURLs = map[core.MarketType]string{
	core.MarketTypeSpot:    "https://api.binance.com",
	core.MarketTypeFutures: "https://fapi.binance.com",
}

func restBaseURL(mt core.MarketType) string {
	if u, ok := baseURLs[mt]; ok {
		return u
	}
	return baseURLs[core.MarketTypeSpot]
}

func apiPathPrefix(mt core.MarketType) string {
	if mt == core.MarketTypeFutures {
		return "/fapi/v1"
	}
	return "/api/v3"
}

var wsSingleURLs = map[core.MarketType]string{
	core.MarketTypeSpot:    "wss://stream.binance.com:9443/ws",
	core.MarketTypeFutures: "wss://fstream.binance.com/ws",
}

var wsCombinedURLs = map[core.MarketType]string{
	core.MarketTypeSpot:    "wss://stream.binance.com:9443/stream",
	core.MarketTypeFutures: "wss://fstream.binance.com/stream",
}

// intervalMap translates the canonical Timeframe into Binance's wire
// interval string; every entry keeps the canonical spelling, including the
// month bar "1M".
var intervalMap = map[core.Timeframe]string{
	core.TF1m: "1m", core.TF3m: "3m", core.TF5m: "5m", core.TF15m: "15m", core.TF30m: "30m",
	core.TF1h: "1h", core.TF2h: "2h", core.TF4h: "4h", core.TF6h: "6h", core.TF8h: "8h", core.TF12h: "12h",
	core.TF1d: "1d", core.TF3d: "3d", core.TF1w: "1w", core.TF1M: "1M",
}
