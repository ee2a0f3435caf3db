// Package provider implements the provider registry: per-exchange
// registration metadata, a pooled instance cache keyed by
// (exchange, market_type, variant), and feature-handler lookup used by the
// router.
//
// Grounded on original_source/laakhay/data/runtime/provider_registry.py.
package provider

import (
	"fmt"
	"sync"

	"github.com/quorumfeed/marketdata/internal/capability"
	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/urm"
)

// Provider is the lifecycle contract every exchange adapter implements.
// Close tears down network resources; Closed reports whether the instance
// has already been torn down (the pool evicts closed instances on next
// lookup).
type Provider interface {
	Close() error
	Closed() bool
}

// Constructor builds a Provider instance for one (market_type, variant)
// combination. apiKey/apiSecret are threaded through for adapters that
// need authenticated endpoints even though this system only reads public
// data; most constructors ignore them.
type Constructor func(marketType core.MarketType, variant *core.MarketVariant, apiKey, apiSecret string) (Provider, error)

// FeatureHandler is one registered (feature, transport) method on a
// provider instance.
type FeatureHandler struct {
	MethodName  string
	Method      func(instance Provider, args map[string]any) (any, error)
	Feature     core.Feature
	Transport   core.Transport
	Constraints map[string]string
}

// Registration is the metadata stored for one exchange.
type Registration struct {
	Exchange       string
	Constructor    Constructor
	MarketTypes    []core.MarketType
	URMMapper      urm.Mapper
	FeatureHandlers map[HandlerKey]FeatureHandler
}

// HandlerKey identifies one (feature, transport) slot in a Registration's
// FeatureHandlers map. Exported so internal/exchanges/*/register.go can
// build the map literal.
type HandlerKey struct {
	Feature   core.Feature
	Transport core.Transport
}

type poolKey struct {
	exchange   string
	marketType core.MarketType
	variant    core.MarketVariant
}

// Registry is the process-wide (or test-constructed) provider registry.
type Registry struct {
	mu            sync.RWMutex
	registrations map[string]*Registration
	pool          map[poolKey]Provider
	poolLocks     map[poolKey]*sync.Mutex
	urmRegistry   *urm.Registry
	closed        bool
}

// NewRegistry builds an empty registry. urmRegistry may be urm.Default()
// or a constructed instance for tests.
func NewRegistry(urmRegistry *urm.Registry) *Registry {
	return &Registry{
		registrations: make(map[string]*Registration),
		pool:          make(map[poolKey]Provider),
		poolLocks:     make(map[poolKey]*sync.Mutex),
		urmRegistry:   urmRegistry,
	}
}

// Register stores exchange's metadata. Returns an error if exchange is
// already registered.
func (r *Registry) Register(exchange string, ctor Constructor, marketTypes []core.MarketType, mapper urm.Mapper, handlers map[HandlerKey]FeatureHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.registrations[exchange]; exists {
		return fmt.Errorf("provider registry: %s is already registered", exchange)
	}
	r.registrations[exchange] = &Registration{
		Exchange: exchange, Constructor: ctor, MarketTypes: marketTypes, URMMapper: mapper, FeatureHandlers: handlers,
	}
	if mapper != nil {
		r.urmRegistry.Register(exchange, mapper)
	}
	for _, mt := range marketTypes {
		for _, v := range variantsOf(mt) {
			r.poolLocks[poolKey{exchange, mt, v}] = &sync.Mutex{}
		}
	}
	return nil
}

func variantsOf(mt core.MarketType) []core.MarketVariant {
	if mt == core.MarketTypeFutures {
		return []core.MarketVariant{core.VariantLinearPerp, core.VariantInversePerp, core.VariantLinearDelivery, core.VariantInverseDelivery}
	}
	return []core.MarketVariant{core.DefaultVariant(mt)}
}

// Unregister removes exchange's registration and evicts pooled instances.
func (r *Registry) Unregister(exchange string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.registrations, exchange)
	r.urmRegistry.Unregister(exchange)
	for k, instance := range r.pool {
		if k.exchange == exchange {
			instance.Close()
			delete(r.pool, k)
		}
	}
}

// IsRegistered reports whether exchange has been registered.
func (r *Registry) IsRegistered(exchange string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registrations[exchange]
	return ok
}

// ListExchanges returns every registered exchange name.
func (r *Registry) ListExchanges() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.registrations))
	for name := range r.registrations {
		out = append(out, name)
	}
	return out
}

// GetProvider returns the pooled instance for (exchange, marketType,
// variant), constructing it under a per-key lock on first use (or after
// the cached instance is observed closed). Concurrent callers racing on an
// empty pool key construct exactly one instance.
func (r *Registry) GetProvider(exchange string, marketType core.MarketType, variant *core.MarketVariant, apiKey, apiSecret string) (Provider, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, fmt.Errorf("provider registry: closed")
	}
	reg, ok := r.registrations[exchange]
	r.mu.RUnlock()
	if !ok {
		return nil, &core.ProviderError{Message: fmt.Sprintf("exchange %q is not registered", exchange)}
	}

	resolvedVariant := core.FromMarketType(marketType, variant)
	key := poolKey{exchange, marketType, resolvedVariant}

	r.mu.RLock()
	if instance, ok := r.pool[key]; ok && !instance.Closed() {
		r.mu.RUnlock()
		return instance, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	lock, ok := r.poolLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.poolLocks[key] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	if instance, ok := r.pool[key]; ok && !instance.Closed() {
		r.mu.RUnlock()
		return instance, nil // another caller constructed it while we waited
	}
	r.mu.RUnlock()

	instance, err := reg.Constructor(marketType, &resolvedVariant, apiKey, apiSecret)
	if err != nil {
		return nil, &core.ProviderError{Message: fmt.Sprintf("constructing %s provider failed: %v", exchange, err), Cause: err}
	}

	r.mu.Lock()
	r.pool[key] = instance
	r.mu.Unlock()
	return instance, nil
}

// GetFeatureHandler looks up the handler for (feature, transport) on
// exchange.
func (r *Registry) GetFeatureHandler(exchange string, feature core.Feature, transport core.Transport) (FeatureHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.registrations[exchange]
	if !ok {
		return FeatureHandler{}, &core.ProviderError{Message: fmt.Sprintf("exchange %q is not registered", exchange)}
	}
	handler, ok := reg.FeatureHandlers[HandlerKey{feature, transport}]
	if !ok {
		return FeatureHandler{}, &core.ProviderError{Message: fmt.Sprintf("%s has no handler for %s/%s", exchange, feature, transport)}
	}
	return handler, nil
}

// ShutdownInstances tears down every pooled instance, suppressing
// individual close errors (mirrors the original's close_all behavior of
// best-effort teardown).
func (r *Registry) ShutdownInstances() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, instance := range r.pool {
		instance.Close()
		delete(r.pool, k)
	}
}

// CloseAll tears down all instances and marks the registry closed; further
// GetProvider calls error.
func (r *Registry) CloseAll() {
	r.ShutdownInstances()
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// NewHandlerKey is exported for the registration helpers in
// internal/exchanges/*/register.go to build FeatureHandlers maps.
func NewHandlerKey(feature core.Feature, transport core.Transport) HandlerKey {
	return HandlerKey{feature, transport}
}

// Discover walks every registration's feature handlers into the flat
// capability.DiscoveredCapability list the capability registry builds from.
// Every entry it returns has Source=SourceHandler; endpoint specs are not
// walked, so no endpoint-sourced entries are produced.
func (r *Registry) Discover() ([]capability.DiscoveredCapability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []capability.DiscoveredCapability
	for exchange, reg := range r.registrations {
		for _, mt := range reg.MarketTypes {
			for hk, handler := range reg.FeatureHandlers {
				for _, variant := range variantsOf(mt) {
					it := variantInstrumentType(variant)
					out = append(out, capability.DiscoveredCapability{
						Exchange:       exchange,
						MarketType:     mt,
						InstrumentType: it,
						Feature:        hk.Feature,
						Transport:      hk.Transport,
						Constraints:    handler.Constraints,
						Source:         capability.SourceHandler,
					})
				}
			}
		}
	}
	return out, nil
}

func variantInstrumentType(v core.MarketVariant) core.InstrumentType {
	switch v {
	case core.VariantLinearPerp, core.VariantInversePerp:
		return core.InstrumentPerpetual
	case core.VariantLinearDelivery, core.VariantInverseDelivery:
		return core.InstrumentFuture
	case core.VariantOptions:
		return core.InstrumentOption
	default:
		return core.InstrumentSpot
	}
}
