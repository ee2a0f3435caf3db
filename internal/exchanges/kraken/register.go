package kraken

import (
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/rest"
)

// Register installs the Kraken provider and URM mapper. No feature
// handlers are registered yet, so the capability registry reports no
// supported (feature, transport) pairs for kraken until REST/WS handlers
// are added; the mapper is still reachable for direct URM use.
func Register(providers *provider.Registry, restCfg rest.RunnerConfig, log zerolog.Logger) error {
	marketTypes := []core.MarketType{core.MarketTypeSpot, core.MarketTypeFutures}
	return providers.Register("kraken", NewConstructor(restCfg, log), marketTypes, URM{}, map[provider.HandlerKey]provider.FeatureHandler{})
}
