// Package urm implements the Universal Representation Mapper: per-exchange
// bidirectional symbol normalization between canonical InstrumentSpec values
// and exchange-native wire strings, plus a TTL-cached registry fronting all
// registered mappers.
//
// Grounded on original_source/laakhay/data/core/urm.py.
package urm

import (
	"strings"
	"sync"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
)

// Mapper is the contract an exchange-specific symbol dialect implements.
type Mapper interface {
	ToSpec(exchangeSymbol string, marketType core.MarketType) (core.InstrumentSpec, error)
	ToExchangeSymbol(spec core.InstrumentSpec, marketType core.MarketType) (string, error)
}

type cacheKey struct {
	exchange   string
	symbol     string
	marketType core.MarketType
}

type cacheEntry struct {
	spec      core.InstrumentSpec
	expiresAt time.Time
}

// Registry keeps exchange -> mapper and a TTL-checked resolution cache.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	mappers  map[string]Mapper
	cache    map[cacheKey]cacheEntry
	cacheTTL time.Duration
	now      func() time.Time
}

// NewRegistry builds an empty registry with the given cache TTL (default
// 5 minutes by default).
func NewRegistry(cacheTTL time.Duration) *Registry {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Registry{
		mappers:  make(map[string]Mapper),
		cache:    make(map[cacheKey]cacheEntry),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Register installs (or replaces) the mapper for an exchange.
func (r *Registry) Register(exchange string, mapper Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[exchange] = mapper
}

// Unregister removes an exchange's mapper and clears its cache entries.
func (r *Registry) Unregister(exchange string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mappers, exchange)
	for k := range r.cache {
		if k.exchange == exchange {
			delete(r.cache, k)
		}
	}
}

// HasMapper reports whether exchange has a registered mapper.
func (r *Registry) HasMapper(exchange string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mappers[exchange]
	return ok
}

// ToSpec resolves exchangeSymbol through exchange's mapper, consulting and
// populating the TTL cache. Mapper errors are wrapped into
// SymbolResolutionError with the attempted value.
func (r *Registry) ToSpec(exchange, exchangeSymbol string, marketType core.MarketType) (core.InstrumentSpec, error) {
	key := cacheKey{exchange: exchange, symbol: normalizeCacheSymbol(exchangeSymbol), marketType: marketType}

	r.mu.RLock()
	entry, ok := r.cache[key]
	mapper, hasMapper := r.mappers[exchange]
	r.mu.RUnlock()

	if ok && r.now().Before(entry.expiresAt) {
		return entry.spec, nil
	}
	if !hasMapper {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: "no URM mapper registered for exchange", Exchange: exchange, Value: exchangeSymbol, MarketType: marketType,
		}
	}

	spec, err := mapper.ToSpec(exchangeSymbol, marketType)
	if err != nil {
		return core.InstrumentSpec{}, &core.SymbolResolutionError{
			Message: err.Error(), Exchange: exchange, Value: exchangeSymbol, MarketType: marketType,
		}
	}

	r.mu.Lock()
	r.cache[key] = cacheEntry{spec: spec, expiresAt: r.now().Add(r.cacheTTL)}
	r.mu.Unlock()
	return spec, nil
}

// ToExchangeSymbol resolves spec to exchange's native string. Not cached
// directly (the reverse direction is cheap and deterministic per mapper);
// the forward direction populates the cache for later ToSpec calls with the
// resulting string, matching the original's single symbol-keyed cache.
func (r *Registry) ToExchangeSymbol(exchange string, spec core.InstrumentSpec, marketType core.MarketType) (string, error) {
	r.mu.RLock()
	mapper, hasMapper := r.mappers[exchange]
	r.mu.RUnlock()
	if !hasMapper {
		return "", &core.SymbolResolutionError{
			Message: "no URM mapper registered for exchange", Exchange: exchange, Value: spec.String(), MarketType: marketType,
		}
	}
	symbol, err := mapper.ToExchangeSymbol(spec, marketType)
	if err != nil {
		return "", &core.SymbolResolutionError{
			Message: err.Error(), Exchange: exchange, Value: spec.String(), MarketType: marketType,
		}
	}
	key := cacheKey{exchange: exchange, symbol: normalizeCacheSymbol(symbol), marketType: marketType}
	r.mu.Lock()
	r.cache[key] = cacheEntry{spec: spec, expiresAt: r.now().Add(r.cacheTTL)}
	r.mu.Unlock()
	return symbol, nil
}

// ClearCache drops all cached resolutions.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[cacheKey]cacheEntry)
}

func normalizeCacheSymbol(s string) string {
	return strings.ToUpper(s)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide opt-in singleton registry. Global
// state here is opt-in only; callers should prefer a constructed
// instance injected explicitly, e.g. for tests.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(5 * time.Minute)
	})
	return defaultRegistry
}
