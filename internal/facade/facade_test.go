package facade

import (
	"context"
	"testing"
	"time"

	"github.com/quorumfeed/marketdata/internal/capability"
	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/router"
	"github.com/quorumfeed/marketdata/internal/urm"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) Close() error { return nil }
func (stubProvider) Closed() bool { return false }

type passthroughMapper struct{}

func (passthroughMapper) ToSpec(symbol string, mt core.MarketType) (core.InstrumentSpec, error) {
	return core.NewInstrumentSpec("BTC", "USDT", core.InstrumentSpot)
}

func (passthroughMapper) ToExchangeSymbol(spec core.InstrumentSpec, mt core.MarketType) (string, error) {
	return spec.Base + spec.Quote, nil
}

func buildTestAPI(t *testing.T) *API {
	t.Helper()
	urmReg := urm.NewRegistry(time.Minute)
	providerReg := provider.NewRegistry(urmReg)

	handlers := map[provider.HandlerKey]provider.FeatureHandler{
		provider.NewHandlerKey(core.FeatureOHLCV, core.TransportREST): {
			Method: func(instance provider.Provider, args map[string]any) (any, error) {
				return core.OHLCV{Meta: core.OHLCVMeta{Symbol: args["symbol"].(string)}}, nil
			},
		},
	}
	require.NoError(t, providerReg.Register("binance", func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (provider.Provider, error) {
		return stubProvider{}, nil
	}, []core.MarketType{core.MarketTypeSpot}, passthroughMapper{}, handlers))

	capReg := capability.NewRegistry(providerReg.Discover)
	r := router.New(providerReg, capReg, urmReg)
	r.RegisterStreamHandler("binance", core.FeatureTrades, func(instance provider.Provider, args map[string]any) (<-chan router.StreamItem, error) {
		out := make(chan router.StreamItem, 1)
		out <- router.StreamItem{Record: core.Trade{Symbol: args["symbol"].(string)}}
		close(out)
		return out, nil
	})

	return New(r, Defaults{Exchange: "binance", MarketType: core.MarketTypeSpot})
}

func TestAPI_FetchOHLCV_UsesDefaultsAndNormalizesSymbol(t *testing.T) {
	api := buildTestAPI(t)
	result, err := api.FetchOHLCV(context.Background(), "BTC/USDT", core.TF1h, OHLCVOptions{})
	require.NoError(t, err)
	require.Equal(t, "BTCUSDT", result.Meta.Symbol)
}

func TestAPI_StreamTrades_YieldsTypedRecords(t *testing.T) {
	api := buildTestAPI(t)
	ch, err := api.StreamTrades(context.Background(), "BTC/USDT", StreamOptions{})
	require.NoError(t, err)

	result, ok := <-ch
	require.True(t, ok)
	require.NoError(t, result.Err)
	require.Equal(t, "BTCUSDT", result.Value.Symbol)

	_, stillOpen := <-ch
	require.False(t, stillOpen)
}
