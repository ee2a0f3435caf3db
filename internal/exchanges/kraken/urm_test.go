package kraken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumfeed/marketdata/internal/core"
)

func TestURM_ToSpec_SpotAliasesXBTToBTC(t *testing.T) {
	spec, err := URM{}.ToSpec("XBT/USD", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTC", spec.Base)
	assert.Equal(t, "USD", spec.Quote)
	assert.Equal(t, core.InstrumentSpot, spec.InstrumentType)

	spec, err = URM{}.ToSpec("ETH/USD", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "ETH", spec.Base)
}

func TestURM_ToSpec_FuturesRequiresPIPrefix(t *testing.T) {
	spec, err := URM{}.ToSpec("PI_XBTUSD", core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, "BTC", spec.Base)
	assert.Equal(t, "USD", spec.Quote)
	assert.Equal(t, core.InstrumentPerpetual, spec.InstrumentType)

	_, err = URM{}.ToSpec("XBTUSD", core.MarketTypeFutures)
	assert.Error(t, err)
}

func TestURM_ToSpec_SpotMissingSeparatorErrors(t *testing.T) {
	_, err := URM{}.ToSpec("XBTUSD", core.MarketTypeSpot)
	assert.Error(t, err)
}

func TestURM_ToExchangeSymbol_DenormalizesBTCToXBT(t *testing.T) {
	spotSpec, err := core.NewInstrumentSpec("BTC", "USD", core.InstrumentSpot)
	require.NoError(t, err)
	sym, err := URM{}.ToExchangeSymbol(spotSpec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "XBT/USD", sym)

	perpSpec, err := core.NewInstrumentSpec("BTC", "USD", core.InstrumentPerpetual)
	require.NoError(t, err)
	sym, err = URM{}.ToExchangeSymbol(perpSpec, core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, "PI_XBTUSD", sym)
}

func TestURM_ToExchangeSymbol_RejectsMismatchedMarketAndInstrumentType(t *testing.T) {
	perpSpec, err := core.NewInstrumentSpec("BTC", "USD", core.InstrumentPerpetual)
	require.NoError(t, err)
	_, err = URM{}.ToExchangeSymbol(perpSpec, core.MarketTypeSpot)
	assert.Error(t, err)

	spotSpec, err := core.NewInstrumentSpec("BTC", "USD", core.InstrumentSpot)
	require.NoError(t, err)
	_, err = URM{}.ToExchangeSymbol(spotSpec, core.MarketTypeFutures)
	assert.Error(t, err)
}

func TestURM_RoundTrip(t *testing.T) {
	spec, err := URM{}.ToSpec("XBT/USD", core.MarketTypeSpot)
	require.NoError(t, err)
	sym, err := URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "XBT/USD", sym)

	spec, err = URM{}.ToSpec("PI_XBTUSD", core.MarketTypeFutures)
	require.NoError(t, err)
	sym, err = URM{}.ToExchangeSymbol(spec, core.MarketTypeFutures)
	require.NoError(t, err)
	assert.Equal(t, "PI_XBTUSD", sym)
}
