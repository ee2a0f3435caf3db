package binance

import (
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/engine"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/rest"
	"github.com/quorumfeed/marketdata/internal/router"
)

// Register wires the Binance adapter into providers (construction, URM
// mapper, REST feature handlers) and r (the WS stream handlers), sharing
// one engine.Metrics registry across every pooled Binance instance.
func Register(providers *provider.Registry, r *router.Router, restCfg rest.RunnerConfig, engineCfg engine.Config, metrics *engine.Metrics, log zerolog.Logger) error {
	handlers := map[provider.HandlerKey]provider.FeatureHandler{
		provider.NewHandlerKey(core.FeatureOHLCV, core.TransportREST): {
			MethodName: "FetchOHLCV", Method: FetchOHLCV,
			Feature: core.FeatureOHLCV, Transport: core.TransportREST,
		},
		provider.NewHandlerKey(core.FeatureOrderBook, core.TransportREST): {
			MethodName: "FetchOrderBook", Method: FetchOrderBook,
			Feature: core.FeatureOrderBook, Transport: core.TransportREST,
			Constraints: map[string]string{"max_depth": "5000"},
		},
		provider.NewHandlerKey(core.FeatureTrades, core.TransportREST): {
			MethodName: "FetchTrades", Method: FetchTrades,
			Feature: core.FeatureTrades, Transport: core.TransportREST,
			Constraints: map[string]string{"max_limit": "1000"},
		},
		// WS entries carry no Method: routing for streams goes through
		// r.RegisterStreamHandler below. These placeholders exist so
		// provider.Registry.Discover reports the (feature, ws) pair to the
		// capability registry.
		provider.NewHandlerKey(core.FeatureOHLCV, core.TransportWS): {
			Feature: core.FeatureOHLCV, Transport: core.TransportWS,
		},
		provider.NewHandlerKey(core.FeatureTrades, core.TransportWS): {
			Feature: core.FeatureTrades, Transport: core.TransportWS,
		},
	}

	marketTypes := []core.MarketType{core.MarketTypeSpot, core.MarketTypeFutures}
	if err := providers.Register("binance", NewConstructor(restCfg, engineCfg, metrics, log), marketTypes, URM{}, handlers); err != nil {
		return err
	}

	r.RegisterStreamHandler("binance", core.FeatureOHLCV, StreamOHLCV)
	r.RegisterStreamHandler("binance", core.FeatureTrades, StreamTrades)
	return nil
}
