package mexc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumfeed/marketdata/internal/core"
)

func TestURM_RoundTrip(t *testing.T) {
	spec, err := URM{}.ToSpec("BTCUSDT", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTC", spec.Base)

	sym, err := URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", sym)
}

func TestURM_RejectsFutures(t *testing.T) {
	_, err := URM{}.ToSpec("BTCUSDT", core.MarketTypeFutures)
	assert.Error(t, err)
}
