// Package kraken implements the Kraken exchange adapter.
//
// Grounded on original_source/laakhay/data/connectors/kraken/provider.py,
// whose docstring documents this as "a minimal stub implementation...
// Currently only the URM mapper is functional" — the same scope this
// package carries: a working symbol mapper and provider registration, with
// no REST or WS feature handlers wired yet.
package kraken

import "github.com/quorumfeed/marketdata/internal/core"

var baseURLs = map[core.MarketType]string{
	core.MarketTypeSpot:    "https://api.kraken.com",
	core.MarketTypeFutures: "https://futures.kraken.com/derivatives/api/v3",
}

func restBaseURL(mt core.MarketType) string {
	if u, ok := baseURLs[mt]; ok {
		return u
	}
	return baseURLs[core.MarketTypeSpot]
}

// intervalMap is Kraken's minute-denominated candle interval; no 3-day bar
// exists on this venue, and the month bar maps to 21600 (15 days), the
// venue's largest interval.
var intervalMap = map[core.Timeframe]string{
	core.TF1m: "1", core.TF3m: "3", core.TF5m: "5", core.TF15m: "15", core.TF30m: "30",
	core.TF1h: "60", core.TF2h: "120", core.TF4h: "240", core.TF6h: "360", core.TF8h: "480", core.TF12h: "720",
	core.TF1d: "1440", core.TF1w: "10080", core.TF1M: "21600",
}
