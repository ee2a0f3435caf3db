// Package bybit implements the Bybit exchange adapter as a thin stub: a
// functional URM mapper and provider registration, no REST/WS feature
// handlers yet.
//
// Grounded on original_source/laakhay/data/connectors/bybit/ and
// tests/unit/providers/bybit/test_bybit_urm.py.
package bybit

import "github.com/quorumfeed/marketdata/internal/core"

var baseURLs = map[core.MarketType]string{
	core.MarketTypeSpot:    "https://api.bybit.com",
	core.MarketTypeFutures: "https://api.bybit.com",
}

func restBaseURL(mt core.MarketType) string {
	if u, ok := baseURLs[mt]; ok {
		return u
	}
	return baseURLs[core.MarketTypeSpot]
}
