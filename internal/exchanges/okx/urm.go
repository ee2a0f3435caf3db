package okx

import (
	"strings"

	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is OKX's symbol mapper: hyphen-separated BASE-QUOTE for spot,
// BASE-QUOTE-SWAP for perpetuals.
type URM struct{}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	switch {
	case mt == core.MarketTypeSpot && spec.InstrumentType == core.InstrumentSpot:
		return spec.Base + "-" + spec.Quote, nil
	case mt == core.MarketTypeFutures && spec.InstrumentType == core.InstrumentPerpetual:
		return spec.Base + "-" + spec.Quote + "-SWAP", nil
	default:
		return "", &core.SymbolResolutionError{
			Message:  "okx only maps spot spec<->spot symbol and perpetual spec<->futures symbol",
			Exchange: "okx", Value: spec.String(),
		}
	}
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	if mt == core.MarketTypeFutures {
		rest, ok := strings.CutSuffix(symbol, "-SWAP")
		if !ok {
			return core.InstrumentSpec{}, &core.SymbolResolutionError{
				Message: "okx futures symbols require a -SWAP suffix", Exchange: "okx", Value: symbol,
			}
		}
		base, quote, ok := strings.Cut(rest, "-")
		if !ok || base == "" || quote == "" {
			return core.InstrumentSpec{}, &core.SymbolResolutionError{
				Message: "okx symbols require a BASE-QUOTE separator", Exchange: "okx", Value: symbol,
			}
		}
		return core.NewInstrumentSpec(base, quote, core.InstrumentPerpetual)
	}

	base, quote, ok := strings.Cut(symbol, "-")
	if !ok || base == "" || quote == "" {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "okx symbols require a BASE-QUOTE separator", Exchange: "okx", Value: symbol,
		}
	}
	return core.NewInstrumentSpec(base, quote, core.InstrumentSpot)
}
