package router

import (
	"context"
	"testing"
	"time"

	"github.com/quorumfeed/marketdata/internal/capability"
	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/urm"
	"github.com/stretchr/testify/assert"
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

func buildTestRouter(t *testing.T) (*Router, *provider.Registry) {
	t.Helper()
	urmReg := urm.NewRegistry(time.Minute)
	providerReg := provider.NewRegistry(urmReg)

	var lastArgs map[string]any
	handlers := map[provider.HandlerKey]provider.FeatureHandler{
		provider.NewHandlerKey(core.FeatureOHLCV, core.TransportREST): {
			MethodName: "fetch_ohlcv",
			Feature:    core.FeatureOHLCV,
			Transport:  core.TransportREST,
			Method: func(instance provider.Provider, args map[string]any) (any, error) {
				lastArgs = args
				return core.OHLCV{Meta: core.OHLCVMeta{Symbol: args["symbol"].(string)}}, nil
			},
		},
	}
	_ = lastArgs
	require.NoError(t, providerReg.Register("binance", func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (provider.Provider, error) {
		return stubProvider{}, nil
	}, []core.MarketType{core.MarketTypeSpot}, passthroughMapper{}, handlers))

	capReg := capability.NewRegistry(providerReg.Discover)
	return New(providerReg, capReg, urmReg), providerReg
}

func TestRouter_Route_HappyPath(t *testing.T) {
	r, _ := buildTestRouter(t)
	symbol := "BTC/USDT"
	tf := core.TF1h
	req := core.DataRequest{
		Feature: core.FeatureOHLCV, Transport: core.TransportREST, Exchange: "binance",
		MarketType: core.MarketTypeSpot, InstrumentType: core.InstrumentSpot,
		Symbol: &symbol, Timeframe: &tf,
	}
	result, err := r.Route(context.Background(), req)
	require.NoError(t, err)
	ohlcv := result.(core.OHLCV)
	assert.Equal(t, "BTCUSDT", ohlcv.Meta.Symbol)
}

func TestRouter_Route_RejectsURMID(t *testing.T) {
	r, _ := buildTestRouter(t)
	symbol := "urm://binance:BTC/USDT:spot"
	tf := core.TF1h
	req := core.DataRequest{
		Feature: core.FeatureOHLCV, Transport: core.TransportREST, Exchange: "binance",
		MarketType: core.MarketTypeSpot, InstrumentType: core.InstrumentSpot,
		Symbol: &symbol, Timeframe: &tf,
	}
	_, err := r.Route(context.Background(), req)
	require.Error(t, err)
	var symErr *core.SymbolResolutionError
	assert.ErrorAs(t, err, &symErr)
}

func TestRouter_Route_RejectsSymbolWithoutSlash(t *testing.T) {
	r, _ := buildTestRouter(t)
	symbol := "BTCUSDT"
	tf := core.TF1h
	req := core.DataRequest{
		Feature: core.FeatureOHLCV, Transport: core.TransportREST, Exchange: "binance",
		MarketType: core.MarketTypeSpot, InstrumentType: core.InstrumentSpot,
		Symbol: &symbol, Timeframe: &tf,
	}
	_, err := r.Route(context.Background(), req)
	require.Error(t, err)
	var symErr *core.SymbolResolutionError
	assert.ErrorAs(t, err, &symErr)
}

func TestRouter_Route_CapabilityGateRejectsUnsupportedFeature(t *testing.T) {
	r, _ := buildTestRouter(t)
	symbol := "BTC/USD"
	req := core.DataRequest{
		Feature: core.FeatureFundingRate, Transport: core.TransportREST, Exchange: "binance",
		MarketType: core.MarketTypeSpot, InstrumentType: core.InstrumentSpot,
		Symbol: &symbol,
	}
	_, err := r.Route(context.Background(), req)
	require.Error(t, err)
	var capErr *core.CapabilityError
	assert.ErrorAs(t, err, &capErr)
}

func TestRouter_Route_OrderBookDepthRenamedToLimit(t *testing.T) {
	urmReg := urm.NewRegistry(time.Minute)
	providerReg := provider.NewRegistry(urmReg)
	var captured map[string]any
	handlers := map[provider.HandlerKey]provider.FeatureHandler{
		provider.NewHandlerKey(core.FeatureOrderBook, core.TransportREST): {
			Method: func(instance provider.Provider, args map[string]any) (any, error) {
				captured = args
				return core.OrderBook{}, nil
			},
		},
	}
	require.NoError(t, providerReg.Register("binance", func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (provider.Provider, error) {
		return stubProvider{}, nil
	}, []core.MarketType{core.MarketTypeSpot}, passthroughMapper{}, handlers))
	capReg := capability.NewRegistry(providerReg.Discover)
	r := New(providerReg, capReg, urmReg)

	symbol := "BTC/USDT"
	depth := 50
	req := core.DataRequest{
		Feature: core.FeatureOrderBook, Transport: core.TransportREST, Exchange: "binance",
		MarketType: core.MarketTypeSpot, InstrumentType: core.InstrumentSpot,
		Symbol: &symbol, Depth: &depth,
	}
	_, err := r.Route(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 50, captured["limit"])
	assert.NotContains(t, captured, "depth")
}
