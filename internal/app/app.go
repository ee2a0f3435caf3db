// Package app wires the library's components into one running instance:
// configuration, URM registry, provider registry (with every exchange
// adapter registered), capability registry and its revalidation
// scheduler, router, and facade. cmd/marketdata builds one App and drives
// it from cobra subcommands.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/quorumfeed/marketdata/internal/capability"
	"github.com/quorumfeed/marketdata/internal/config"
	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/engine"
	"github.com/quorumfeed/marketdata/internal/exchanges/binance"
	"github.com/quorumfeed/marketdata/internal/exchanges/bybit"
	"github.com/quorumfeed/marketdata/internal/exchanges/coinbase"
	"github.com/quorumfeed/marketdata/internal/exchanges/hyperliquid"
	"github.com/quorumfeed/marketdata/internal/exchanges/kraken"
	"github.com/quorumfeed/marketdata/internal/exchanges/mexc"
	"github.com/quorumfeed/marketdata/internal/exchanges/okx"
	"github.com/quorumfeed/marketdata/internal/facade"
	"github.com/quorumfeed/marketdata/internal/provider"
	"github.com/quorumfeed/marketdata/internal/router"
	"github.com/quorumfeed/marketdata/internal/urm"
)

// App holds every long-lived component built at startup.
type App struct {
	Config     config.Config
	Providers  *provider.Registry
	Router     *router.Router
	Capability *capability.Registry
	Scheduler  *capability.Scheduler
	Facade     *facade.API
	Metrics    *prometheus.Registry
}

// New builds an App from cfg, registering every exchange adapter this
// package knows about and starting the capability registry's periodic
// revalidation schedule.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	promReg := prometheus.NewRegistry()
	engineMetrics := engine.NewMetrics(promReg)

	urmRegistry := urm.NewRegistry(cfg.URMCacheTTL())
	providers := provider.NewRegistry(urmRegistry)
	capReg := capability.NewRegistry(providers.Discover)
	r := router.New(providers, capReg, urmRegistry)

	restCfg := cfg.RunnerConfig()
	engineCfg := cfg.EngineConfig()

	if err := binance.Register(providers, r, restCfg, engineCfg, engineMetrics, log); err != nil {
		return nil, fmt.Errorf("registering binance: %w", err)
	}
	if err := kraken.Register(providers, restCfg, log); err != nil {
		return nil, fmt.Errorf("registering kraken: %w", err)
	}
	if err := okx.Register(providers, restCfg, log); err != nil {
		return nil, fmt.Errorf("registering okx: %w", err)
	}
	if err := bybit.Register(providers, restCfg, log); err != nil {
		return nil, fmt.Errorf("registering bybit: %w", err)
	}
	if err := coinbase.Register(providers, restCfg, log); err != nil {
		return nil, fmt.Errorf("registering coinbase: %w", err)
	}
	if err := hyperliquid.Register(providers, restCfg, log); err != nil {
		return nil, fmt.Errorf("registering hyperliquid: %w", err)
	}
	if err := mexc.Register(providers, restCfg, log); err != nil {
		return nil, fmt.Errorf("registering mexc: %w", err)
	}

	scheduler, err := capability.NewScheduler(capReg, cfg.Capability.RevalidateCron, log)
	if err != nil {
		return nil, fmt.Errorf("building capability scheduler: %w", err)
	}

	api := facade.New(r, facade.Defaults{MarketType: core.MarketTypeSpot})

	return &App{
		Config:     cfg,
		Providers:  providers,
		Router:     r,
		Capability: capReg,
		Scheduler:  scheduler,
		Facade:     api,
		Metrics:    promReg,
	}, nil
}

// Start begins the capability registry's periodic revalidation.
func (a *App) Start() { a.Scheduler.Start() }

// Close stops the scheduler and shuts down every pooled provider instance.
func (a *App) Close() {
	a.Scheduler.Stop()
	a.Providers.CloseAll()
}
