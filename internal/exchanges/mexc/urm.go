package mexc

import (
	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is MEXC's symbol mapper: identity concatenation (BASE+QUOTE), spot
// only.
type URM struct{}

var quoteAssets = []string{"USDT", "USDC", "BTC", "ETH", "USD"}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	if mt != core.MarketTypeSpot || spec.InstrumentType != core.InstrumentSpot {
		return "", &core.SymbolResolutionError{
			Message: "mexc only supports spot market data", Exchange: "mexc", Value: spec.String(),
		}
	}
	return spec.Base + spec.Quote, nil
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	if mt != core.MarketTypeSpot {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "mexc only supports spot market data", Exchange: "mexc", Value: symbol,
		}
	}
	for _, q := range quoteAssets {
		if len(symbol) > len(q) && symbol[len(symbol)-len(q):] == q {
			base := symbol[:len(symbol)-len(q)]
			return core.NewInstrumentSpec(base, q, core.InstrumentSpot)
		}
	}
	return core.InstrumentSpec{}, &core.SymbolResolutionError{
		Message: "unable to split base/quote from mexc symbol", Exchange: "mexc", Value: symbol,
	}
}
