package hyperliquid

import (
	"strings"

	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is Hyperliquid's symbol mapper: futures perpetuals trade under the
// bare coin name with quote implicitly USDT; spot pairs use a
// slash-separated BASE/QUOTE.
type URM struct{}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	switch {
	case mt == core.MarketTypeFutures && spec.InstrumentType == core.InstrumentPerpetual:
		return spec.Base, nil
	case mt == core.MarketTypeSpot && spec.InstrumentType == core.InstrumentSpot:
		return spec.Base + "/" + spec.Quote, nil
	default:
		return "", &core.SymbolResolutionError{
			Message:  "hyperliquid only maps spot spec<->spot symbol and perpetual spec<->futures symbol",
			Exchange: "hyperliquid", Value: spec.String(),
		}
	}
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	if strings.HasPrefix(symbol, "@") {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "hyperliquid index symbols are not supported", Exchange: "hyperliquid", Value: symbol,
		}
	}
	if mt == core.MarketTypeFutures {
		return core.NewInstrumentSpec(symbol, "USDT", core.InstrumentPerpetual)
	}
	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || base == "" || quote == "" {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "hyperliquid spot symbols require a BASE/QUOTE separator", Exchange: "hyperliquid", Value: symbol,
		}
	}
	return core.NewInstrumentSpec(base, quote, core.InstrumentSpot)
}
