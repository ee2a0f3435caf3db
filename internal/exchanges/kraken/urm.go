package kraken

import (
	"strings"

	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is Kraken's symbol mapper: spot uses a slash-separated pair with BTC
// aliased to XBT (Kraken's legacy asset code); futures perpetuals use a
// PI_ prefix with no separator, also XBT-aliased.
//
// Grounded on original_source/laakhay/data/connectors/kraken/constants.py
// and tests/unit/providers/kraken/test_kraken_urm.py.
type URM struct{}

var quoteAssets = []string{"USDT", "USD", "EUR", "GBP", "BTC", "ETH"}

func denormalizeBase(base string) string {
	if base == "BTC" {
		return "XBT"
	}
	return base
}

func normalizeBase(base string) string {
	if base == "XBT" {
		return "BTC"
	}
	return base
}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	base := denormalizeBase(spec.Base)
	switch {
	case mt == core.MarketTypeSpot && spec.InstrumentType == core.InstrumentSpot:
		return base + "/" + spec.Quote, nil
	case mt == core.MarketTypeFutures && spec.InstrumentType == core.InstrumentPerpetual:
		return "PI_" + base + spec.Quote, nil
	default:
		return "", &core.SymbolResolutionError{
			Message:  "kraken only maps spot spec<->spot symbol and perpetual spec<->futures symbol",
			Exchange: "kraken", Value: spec.String(),
		}
	}
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	if mt == core.MarketTypeFutures {
		rest, ok := strings.CutPrefix(symbol, "PI_")
		if !ok {
			return core.InstrumentSpec{}, &core.SymbolResolutionError{
				Message: "kraken futures symbols require a PI_ prefix", Exchange: "kraken", Value: symbol,
			}
		}
		for _, q := range quoteAssets {
			if len(rest) > len(q) && strings.HasSuffix(rest, q) {
				base := normalizeBase(rest[:len(rest)-len(q)])
				return core.NewInstrumentSpec(base, q, core.InstrumentPerpetual)
			}
		}
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "unable to split base/quote from kraken futures symbol", Exchange: "kraken", Value: symbol,
		}
	}

	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || base == "" || quote == "" {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "kraken spot symbols require a BASE/QUOTE separator", Exchange: "kraken", Value: symbol,
		}
	}
	return core.NewInstrumentSpec(normalizeBase(base), quote, core.InstrumentSpot)
}
