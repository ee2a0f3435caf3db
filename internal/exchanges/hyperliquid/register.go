package hyperliquid

import (
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/rest"
)

// Register installs the Hyperliquid provider and URM mapper. No feature
// handlers are registered yet.
func Register(providers *provider.Registry, restCfg rest.RunnerConfig, log zerolog.Logger) error {
	marketTypes := []core.MarketType{core.MarketTypeSpot, core.MarketTypeFutures}
	return providers.Register("hyperliquid", NewConstructor(restCfg, log), marketTypes, URM{}, map[provider.HandlerKey]provider.FeatureHandler{})
}
