package bybit

import (
	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is Bybit's symbol mapper: identity concatenation (BASE+QUOTE) with
// the identical wire symbol used for both spot and linear perpetual
// instruments, disambiguated only by market_type, not by symbol shape.
type URM struct{}

var quoteAssets = []string{"USDT", "USDC", "BUSD", "BTC", "ETH", "USD"}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	if mt == core.MarketTypeSpot && spec.InstrumentType != core.InstrumentSpot {
		return "", &core.SymbolResolutionError{
			Message: "bybit spot market requires a spot instrument type", Exchange: "bybit", Value: spec.String(),
		}
	}
	if mt == core.MarketTypeFutures && spec.InstrumentType != core.InstrumentPerpetual {
		return "", &core.SymbolResolutionError{
			Message: "bybit futures market requires a perpetual instrument type", Exchange: "bybit", Value: spec.String(),
		}
	}
	return spec.Base + spec.Quote, nil
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	for _, q := range quoteAssets {
		if len(symbol) > len(q) && symbol[len(symbol)-len(q):] == q {
			base := symbol[:len(symbol)-len(q)]
			instrumentType := core.InstrumentSpot
			if mt == core.MarketTypeFutures {
				instrumentType = core.InstrumentPerpetual
			}
			return core.NewInstrumentSpec(base, q, instrumentType)
		}
	}
	return core.InstrumentSpec{}, &core.SymbolResolutionError{
		Message: "unable to split base/quote from bybit symbol", Exchange: "bybit", Value: symbol,
	}
}
