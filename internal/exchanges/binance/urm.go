package binance

import (
	"fmt"

	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is Binance's symbol mapper: identity concatenation (BASE+QUOTE),
// since Binance's wire symbols already use the canonical base/quote pair
// with no venue-specific rewriting (unlike Kraken's XBT aliasing).
type URM struct{}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	if spec.InstrumentType != core.InstrumentSpot && spec.InstrumentType != core.InstrumentPerpetual {
		return "", &core.SymbolResolutionError{Message: fmt.Sprintf("binance does not support instrument type %s", spec.InstrumentType), Exchange: "binance", Value: spec.String()}
	}
	return spec.Base + spec.Quote, nil
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	quoteAssets := []string{"USDT", "BUSD", "USDC", "BTC", "ETH", "BNB", "USD"}
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
	return core.InstrumentSpec{}, &core.SymbolResolutionError{Message: "unable to split base/quote from binance symbol", Exchange: "binance", Value: symbol}
}
