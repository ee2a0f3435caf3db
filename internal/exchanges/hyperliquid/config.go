// Package hyperliquid implements the Hyperliquid exchange adapter as a
// thin stub: a functional URM mapper and provider registration, no
// REST/WS feature handlers yet.
//
// Grounded on original_source/laakhay/data/providers/hyperliquid/ and
// tests/unit/test_hyperliquid_urm.py.
package hyperliquid

const restBaseURL = "https://api.hyperliquid.xyz"
