package hyperliquid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumfeed/marketdata/internal/core"
)

func TestURM_ToSpec_FuturesDefaultsQuoteToUSDT(t *testing.T) {
	spec, err := URM{}.ToSpec("BTC", core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, "BTC", spec.Base)
	assert.Equal(t, "USDT", spec.Quote)
	assert.Equal(t, core.InstrumentPerpetual, spec.InstrumentType)
}

func TestURM_ToSpec_Spot(t *testing.T) {
	spec, err := URM{}.ToSpec("BTC/USDC", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTC", spec.Base)
	assert.Equal(t, "USDC", spec.Quote)
}

func TestURM_ToSpec_RejectsIndexSymbols(t *testing.T) {
	_, err := URM{}.ToSpec("@107", core.MarketTypeSpot)
	assert.Error(t, err)
}

func TestURM_ToExchangeSymbol_FuturesIsBareCoinName(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentPerpetual)
	require.NoError(t, err)
	sym, err := URM{}.ToExchangeSymbol(spec, core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, "BTC", sym)
}

func TestURM_ToExchangeSymbol_RejectsFuturesForSpot(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentPerpetual)
	require.NoError(t, err)
	_, err = URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	assert.Error(t, err)
}

func TestURM_RoundTrip(t *testing.T) {
	spec, err := URM{}.ToSpec("BTC/USDC", core.MarketTypeSpot)
	require.NoError(t, err)
	sym, err := URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDC", sym)
}
