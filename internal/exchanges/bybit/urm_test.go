package bybit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumfeed/marketdata/internal/core"
)

func TestURM_ToSpec_SpotAndFutures(t *testing.T) {
	spec, err := URM{}.ToSpec("BTCUSDT", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, core.InstrumentSpot, spec.InstrumentType)

	spec, err = URM{}.ToSpec("BTCUSDT", core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, core.InstrumentPerpetual, spec.InstrumentType)
}

func TestURM_ToExchangeSymbol_SameWireSymbolBothMarkets(t *testing.T) {
	spotSpec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentSpot)
	require.NoError(t, err)
	sym, err := URM{}.ToExchangeSymbol(spotSpec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", sym)

	perpSpec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentPerpetual)
	require.NoError(t, err)
	sym, err = URM{}.ToExchangeSymbol(perpSpec, core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", sym)
}

func TestURM_ToExchangeSymbol_RejectsMismatchedInstrumentType(t *testing.T) {
	perpSpec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentPerpetual)
	require.NoError(t, err)
	_, err = URM{}.ToExchangeSymbol(perpSpec, core.MarketTypeSpot)
	assert.Error(t, err)
}
