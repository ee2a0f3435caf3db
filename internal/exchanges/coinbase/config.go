// Package coinbase implements the Coinbase exchange adapter as a thin
// stub: a functional URM mapper (spot only, USD-quoted pairs) and provider
// registration, no REST/WS feature handlers yet.
//
// Grounded on original_source/laakhay/data/connectors/coinbase/ and
// tests/unit/providers/coinbase/test_coinbase_urm.py.
package coinbase

const restBaseURL = "https://api.exchange.coinbase.com"
