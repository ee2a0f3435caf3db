package facade

import (
	"testing"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_MissingFeatureIsValidationError(t *testing.T) {
	_, err := NewBuilder().Transport(core.TransportREST).Exchange("binance").
		MarketType(core.MarketTypeSpot).Symbol("BTC/USDT").Build()
	require.Error(t, err)
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "feature", verr.Field)
}

func TestBuilder_MissingExchangeWithNoDefaultIsValidationError(t *testing.T) {
	_, err := NewBuilder().Feature(core.FeatureOHLCV).Transport(core.TransportREST).
		MarketType(core.MarketTypeSpot).Symbol("BTC/USDT").Timeframe(core.TF1h).Build()
	require.Error(t, err)
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "exchange", verr.Field)
}

func TestBuilder_DefaultsFillUnsetFields(t *testing.T) {
	req, err := NewBuilderWithDefaults(Defaults{
		Exchange:   "binance",
		MarketType: core.MarketTypeSpot,
	}).Feature(core.FeatureOHLCV).Transport(core.TransportREST).
		Symbol("BTC/USDT").Timeframe(core.TF1h).Build()
	require.NoError(t, err)
	assert.Equal(t, "binance", req.Exchange)
	assert.Equal(t, core.MarketTypeSpot, req.MarketType)
	assert.Equal(t, core.InstrumentSpot, req.InstrumentType)
}

func TestBuilder_ExplicitValueOverridesDefault(t *testing.T) {
	req, err := NewBuilderWithDefaults(Defaults{Exchange: "binance"}).
		Feature(core.FeatureOHLCV).Transport(core.TransportREST).Exchange("kraken").
		MarketType(core.MarketTypeSpot).Symbol("BTC/USD").Timeframe(core.TF1h).Build()
	require.NoError(t, err)
	assert.Equal(t, "kraken", req.Exchange)
}

func TestBuilder_OrderBookDepthDefaultsTo100(t *testing.T) {
	req, err := NewBuilder().Feature(core.FeatureOrderBook).Transport(core.TransportREST).
		Exchange("binance").MarketType(core.MarketTypeSpot).Symbol("BTC/USDT").Build()
	require.NoError(t, err)
	require.NotNil(t, req.Depth)
	assert.Equal(t, 100, *req.Depth)
}

func TestBuilder_SymbolAndSymbolsMutuallyExclusive(t *testing.T) {
	_, err := NewBuilder().Feature(core.FeatureTrades).Transport(core.TransportREST).
		Exchange("binance").MarketType(core.MarketTypeSpot).
		Symbol("BTC/USDT").Symbols([]string{"ETH/USDT"}).Build()
	require.Error(t, err)
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
}
