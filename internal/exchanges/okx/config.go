// Package okx implements the OKX exchange adapter as a thin stub: a
// functional URM mapper and provider registration, no REST/WS feature
// handlers yet.
//
// Grounded on original_source/laakhay/data/connectors/okx/ and
// tests/unit/providers/okx/test_okx_urm.py for exact symbol semantics.
package okx

import "github.com/quorumfeed/marketdata/internal/core"

var baseURLs = map[core.MarketType]string{
	core.MarketTypeSpot:    "https://www.okx.com",
	core.MarketTypeFutures: "https://www.okx.com",
}

func restBaseURL(mt core.MarketType) string {
	if u, ok := baseURLs[mt]; ok {
		return u
	}
	return baseURLs[core.MarketTypeSpot]
}
