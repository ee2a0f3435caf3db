// Package capability implements the hierarchical capability registry:
// exchange -> market_type -> instrument_type -> feature -> transport ->
// CapabilityStatus, built from discovery over registered providers.
//
// Grounded on original_source/laakhay/data/capability/registry.py and
// core/capabilities.py.
package capability

import (
	"fmt"
	"sync"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
)

type featureMap map[core.Transport]core.CapabilityStatus
type instrumentMap map[core.Feature]featureMap
type marketMap map[core.InstrumentType]instrumentMap
type exchangeMap map[core.MarketType]marketMap

// Registry is the queryable, rebuildable capability map. Safe for
// concurrent use; rebuilds are atomic swaps so readers always observe a
// fully-built map.
type Registry struct {
	mu       sync.RWMutex
	byExch   map[string]exchangeMap
	initFn   func() ([]DiscoveredCapability, error)
	initOnce sync.Once
	now      func() time.Time
}

// NewRegistry constructs an empty registry. discoverFn is invoked lazily on
// first query (or eagerly via RebuildFromDiscovery) to populate the map; it
// is typically provider.Registry.Discover.
func NewRegistry(discoverFn func() ([]DiscoveredCapability, error)) *Registry {
	return &Registry{
		byExch: make(map[string]exchangeMap),
		initFn: discoverFn,
		now:    time.Now,
	}
}

func (r *Registry) ensureInitialized() {
	r.initOnce.Do(func() {
		if r.initFn == nil {
			return
		}
		discovered, err := r.initFn()
		if err != nil {
			return
		}
		r.install(Build(discovered, r.now()))
	})
}

func (r *Registry) install(m map[string]exchangeMap) {
	r.mu.Lock()
	r.byExch = m
	r.mu.Unlock()
}

// RebuildFromDiscovery forces a fresh build from discoverFn, bypassing the
// lazy-init guard. Exists for tests and for the periodic revalidation
// scheduler (internal/capability/scheduler.go).
func (r *Registry) RebuildFromDiscovery() error {
	if r.initFn == nil {
		return fmt.Errorf("capability registry: no discovery function configured")
	}
	discovered, err := r.initFn()
	if err != nil {
		return err
	}
	r.install(Build(discovered, r.now()))
	return nil
}

// Supports performs the hierarchical lookup. It never errors; an
// unrecognized combination yields CapabilityStatus{Supported: false}.
// When instrumentType is empty, PERPETUAL is assumed for
// market_type=FUTURES and SPOT for every other market type.
func (r *Registry) Supports(feature core.Feature, transport core.Transport, exchange string, marketType core.MarketType, instrumentType core.InstrumentType) core.CapabilityStatus {
	r.ensureInitialized()
	if instrumentType == "" {
		instrumentType = autoInstrumentType(marketType)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	mm, ok := r.byExch[exchange]
	if !ok {
		return unsupported(fmt.Sprintf("exchange %q is not registered", exchange))
	}
	im, ok := mm[marketType]
	if !ok {
		return unsupported(fmt.Sprintf("exchange %q does not support market type %q", exchange, marketType))
	}
	fm, ok := im[instrumentType]
	if !ok {
		return unsupported(fmt.Sprintf("exchange %q does not support instrument type %q on %q", exchange, instrumentType, marketType))
	}
	tm, ok := fm[feature]
	if !ok {
		return unsupported(fmt.Sprintf("exchange %q does not support feature %q", exchange, feature))
	}
	status, ok := tm[transport]
	if !ok {
		return unsupported(fmt.Sprintf("exchange %q does not support feature %q over %q", exchange, feature, transport))
	}
	return status
}

func autoInstrumentType(mt core.MarketType) core.InstrumentType {
	if mt == core.MarketTypeFutures {
		return core.InstrumentPerpetual
	}
	return core.InstrumentSpot
}

func unsupported(reason string) core.CapabilityStatus {
	return core.CapabilityStatus{Supported: false, Reason: reason}
}

// ListFeatures enumerates supported features for the given scope.
func (r *Registry) ListFeatures(exchange string, marketType core.MarketType, instrumentType core.InstrumentType) []core.Feature {
	r.ensureInitialized()
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Feature
	fm, ok := r.byExch[exchange][marketType][instrumentType]
	if !ok {
		return out
	}
	for feature, tm := range fm {
		for _, status := range tm {
			if status.Supported {
				out = append(out, feature)
				break
			}
		}
	}
	return out
}

// ExchangeSummary is the flattened view returned by DescribeExchange,
// grounded on the original's static EXCHANGE_METADATA summary shape.
type ExchangeSummary struct {
	Exchange       string
	MarketTypes    []core.MarketType
	RESTFeatures   map[core.MarketType][]core.Feature
	WSFeatures     map[core.MarketType][]core.Feature
}

// DescribeExchange summarizes one exchange's coverage.
func (r *Registry) DescribeExchange(exchange string) ExchangeSummary {
	r.ensureInitialized()
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := ExchangeSummary{
		Exchange:     exchange,
		RESTFeatures: map[core.MarketType][]core.Feature{},
		WSFeatures:   map[core.MarketType][]core.Feature{},
	}
	mm, ok := r.byExch[exchange]
	if !ok {
		return summary
	}
	for mt, im := range mm {
		summary.MarketTypes = append(summary.MarketTypes, mt)
		seenREST := map[core.Feature]bool{}
		seenWS := map[core.Feature]bool{}
		for _, fm := range im {
			for feature, tm := range fm {
				if status, ok := tm[core.TransportREST]; ok && status.Supported && !seenREST[feature] {
					summary.RESTFeatures[mt] = append(summary.RESTFeatures[mt], feature)
					seenREST[feature] = true
				}
				if status, ok := tm[core.TransportWS]; ok && status.Supported && !seenWS[feature] {
					summary.WSFeatures[mt] = append(summary.WSFeatures[mt], feature)
					seenWS[feature] = true
				}
			}
		}
	}
	return summary
}
