package mexc

import (
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/rest"
)

// Register installs the MEXC provider and URM mapper, spot only. No
// feature handlers are registered yet.
func Register(providers *provider.Registry, restCfg rest.RunnerConfig, log zerolog.Logger) error {
	marketTypes := []core.MarketType{core.MarketTypeSpot}
	return providers.Register("mexc", NewConstructor(restCfg, log), marketTypes, URM{}, map[provider.HandlerKey]provider.FeatureHandler{})
}
