package coinbase

import (
	"strings"

	"github.com/quorumfeed/marketdata/internal/core"
)

// URM is Coinbase's symbol mapper: hyphen-separated BASE-QUOTE, spot only,
// USD-quoted pairs only (matching the original's documented restriction).
type URM struct{}

func (URM) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	if mt != core.MarketTypeSpot || spec.InstrumentType != core.InstrumentSpot {
		return "", &core.SymbolResolutionError{
			Message: "coinbase only supports spot market data", Exchange: "coinbase", Value: spec.String(),
		}
	}
	if spec.Quote != "USD" {
		return "", &core.SymbolResolutionError{
			Message: "coinbase only supports USD pairs", Exchange: "coinbase", Value: spec.String(),
		}
	}
	return spec.Base + "-" + spec.Quote, nil
}

func (URM) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	if mt != core.MarketTypeSpot {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "coinbase only supports spot market data", Exchange: "coinbase", Value: symbol,
		}
	}
	base, quote, ok := strings.Cut(symbol, "-")
	if !ok || base == "" || quote == "" {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "coinbase symbols require a BASE-QUOTE separator", Exchange: "coinbase", Value: symbol,
		}
	}
	return core.NewInstrumentSpec(base, quote, core.InstrumentSpot)
}
