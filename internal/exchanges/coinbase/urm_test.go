package coinbase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumfeed/marketdata/internal/core"
)

func TestURM_ToSpec_SpotUSD(t *testing.T) {
	spec, err := URM{}.ToSpec("BTC-USD", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTC", spec.Base)
	assert.Equal(t, "USD", spec.Quote)
}

func TestURM_ToSpec_FuturesRejected(t *testing.T) {
	_, err := URM{}.ToSpec("BTC-USD", core.MarketTypeFutures)
	assert.Error(t, err)
}

func TestURM_ToSpec_MissingSeparatorErrors(t *testing.T) {
	_, err := URM{}.ToSpec("BTCUSD", core.MarketTypeSpot)
	assert.Error(t, err)
}

func TestURM_ToExchangeSymbol_RoundTrip(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USD", core.InstrumentSpot)
	require.NoError(t, err)
	sym, err := URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD", sym)
}

func TestURM_ToExchangeSymbol_RejectsNonUSDQuote(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentSpot)
	require.NoError(t, err)
	_, err = URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supports USD pairs")
}

func TestURM_ToExchangeSymbol_RejectsPerpetual(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USD", core.InstrumentPerpetual)
	require.NoError(t, err)
	_, err = URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	assert.Error(t, err)
}
