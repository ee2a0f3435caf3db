package okx

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/rest"
)

// Provider holds a configured REST runner for future feature handlers;
// none are wired yet.
type Provider struct {
	marketType core.MarketType
	runner     *rest.Runner
	closed     atomic.Bool
}

func NewConstructor(restCfg rest.RunnerConfig, log zerolog.Logger) provider.Constructor {
	return func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (provider.Provider, error) {
		runner := rest.NewRunner(restBaseURL(mt), restCfg, log)
		return &Provider{marketType: mt, runner: runner}, nil
	}
}

func (p *Provider) Close() error { p.closed.Store(true); return nil }
func (p *Provider) Closed() bool { return p.closed.Load() }
