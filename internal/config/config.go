// Package config loads the library's YAML configuration file covering
// rest.*, ws.*, urm.*, relay.*, and capability.* options.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/quorumfeed/marketdata/internal/engine"
	"github.com/quorumfeed/marketdata/internal/rest"
	"gopkg.in/yaml.v3"
)

// RESTConfig configures internal/rest.Runner instances.
type RESTConfig struct {
	TimeoutMs     int `yaml:"timeout_ms"`
	MaxRetries    int `yaml:"max_retries"`
	BaseBackoffMs int `yaml:"base_backoff_ms"`
	RatePerSecond int `yaml:"rate_per_second"`
	RateBurst     int `yaml:"rate_burst"`
}

// ReconnectConfig configures internal/engine's backoff policy.
type ReconnectConfig struct {
	BaseDelayS float64 `yaml:"base_delay_s"`
	MaxDelayS  float64 `yaml:"max_delay_s"`
	Jitter     float64 `yaml:"jitter"`
}

// WSConfig configures internal/engine.Engine instances.
type WSConfig struct {
	PingIntervalS   int             `yaml:"ping_interval_s"`
	PingTimeoutS    int             `yaml:"ping_timeout_s"`
	CloseTimeoutS   int             `yaml:"close_timeout_s"`
	Reconnect       ReconnectConfig `yaml:"reconnect"`
	MaxInboundQueue int             `yaml:"max_inbound_queue"`
}

// URMConfig configures internal/urm.Registry.
type URMConfig struct {
	CacheTTLs int `yaml:"cache_ttl_s"`
}

// RelayConfig configures internal/relay.Relay.
type RelayConfig struct {
	MaxBufferSize      int     `yaml:"max_buffer_size"`
	BackpressurePolicy string  `yaml:"backpressure_policy"`
	MaxRetries         int     `yaml:"max_retries"`
	RetryDelayS        float64 `yaml:"retry_delay_s"`
}

// CapabilityConfig configures internal/capability.Scheduler.
type CapabilityConfig struct {
	RevalidateCron string `yaml:"revalidate_cron"`
}

// Config is the root of the YAML configuration document.
type Config struct {
	Rest       RESTConfig       `yaml:"rest"`
	WS         WSConfig         `yaml:"ws"`
	URM        URMConfig        `yaml:"urm"`
	Relay      RelayConfig      `yaml:"relay"`
	Capability CapabilityConfig `yaml:"capability"`
}

// Default returns the configuration with every documented default
// applied, used when no YAML file is present.
func Default() Config {
	return Config{
		Rest: RESTConfig{TimeoutMs: 10_000, MaxRetries: 3, BaseBackoffMs: 200, RatePerSecond: 10, RateBurst: 20},
		WS: WSConfig{
			PingIntervalS: 30, PingTimeoutS: 10, CloseTimeoutS: 10,
			Reconnect:       ReconnectConfig{BaseDelayS: 1, MaxDelayS: 30, Jitter: 0.2},
			MaxInboundQueue: 1024,
		},
		URM:        URMConfig{CacheTTLs: 300},
		Relay:      RelayConfig{MaxBufferSize: 1000, BackpressurePolicy: "drop", MaxRetries: 3, RetryDelayS: 1},
		Capability: CapabilityConfig{RevalidateCron: "0 */15 * * * *"},
	}
}

// Load reads and parses a YAML config file at path, starting from Default()
// so that unset sections fall back to the documented defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the invariants the rest of the library assumes hold.
func (c Config) Validate() error {
	if c.Rest.TimeoutMs <= 0 {
		return fmt.Errorf("rest.timeout_ms must be positive")
	}
	if c.Rest.MaxRetries < 0 {
		return fmt.Errorf("rest.max_retries must be non-negative")
	}
	switch c.Relay.BackpressurePolicy {
	case "drop", "block", "buffer":
	default:
		return fmt.Errorf("relay.backpressure_policy must be one of drop|block|buffer, got %q", c.Relay.BackpressurePolicy)
	}
	if c.URM.CacheTTLs <= 0 {
		return fmt.Errorf("urm.cache_ttl_s must be positive")
	}
	return nil
}

// RestTimeout returns rest.timeout_ms as a time.Duration.
func (c Config) RestTimeout() time.Duration {
	return time.Duration(c.Rest.TimeoutMs) * time.Millisecond
}

// URMCacheTTL returns urm.cache_ttl_s as a time.Duration.
func (c Config) URMCacheTTL() time.Duration {
	return time.Duration(c.URM.CacheTTLs) * time.Second
}

// RelayRetryDelay returns relay.retry_delay_s as a time.Duration.
func (c Config) RelayRetryDelay() time.Duration {
	return time.Duration(c.Relay.RetryDelayS * float64(time.Second))
}

// RunnerConfig adapts rest.* into the internal/rest.Runner constructor
// parameter every exchange adapter threads through its NewConstructor.
func (c Config) RunnerConfig() rest.RunnerConfig {
	return rest.RunnerConfig{
		TimeoutMs:     c.Rest.TimeoutMs,
		MaxRetries:    c.Rest.MaxRetries,
		BaseBackoffMs: c.Rest.BaseBackoffMs,
		RatePerSecond: float64(c.Rest.RatePerSecond),
		RateBurst:     c.Rest.RateBurst,
	}
}

// EngineConfig adapts ws.* into the internal/engine.Engine constructor
// parameter the Binance adapter threads through its NewConstructor.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		PingInterval:       time.Duration(c.WS.PingIntervalS) * time.Second,
		PingTimeout:        time.Duration(c.WS.PingTimeoutS) * time.Second,
		CloseTimeout:       time.Duration(c.WS.CloseTimeoutS) * time.Second,
		MaxInboundQueue:    c.WS.MaxInboundQueue,
		ReconnectBaseDelay: time.Duration(c.WS.Reconnect.BaseDelayS * float64(time.Second)),
		ReconnectMaxDelay:  time.Duration(c.WS.Reconnect.MaxDelayS * float64(time.Second)),
		Jitter:             c.WS.Reconnect.Jitter,
		SubscribeAckBudget: engine.DefaultConfig().SubscribeAckBudget,
	}
}
