package capability

import (
	"fmt"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
)

// CapabilitySource distinguishes the two discovery inputs; duplicates are
// deduplicated favoring "handler".
type CapabilitySource string

const (
	SourceHandler  CapabilitySource = "handler"
	SourceEndpoint CapabilitySource = "endpoint"
)

// DiscoveredCapability is one row of the flat discovery list Build reads
// (internal/provider.Registry.Discover is the production producer of these,
// and it emits handler-sourced rows only).
type DiscoveredCapability struct {
	Exchange       string
	MarketType     core.MarketType
	InstrumentType core.InstrumentType
	Feature        core.Feature
	Transport      core.Transport
	Constraints    map[string]string
	StreamMetadata map[string]any
	Source         CapabilitySource
}

// Build assembles the four-level nested map from a flat discovery list,
// deduplicating handler-over-endpoint and forcing futures-only features
// unsupported on SPOT.
func Build(discovered []DiscoveredCapability, now time.Time) map[string]exchangeMap {
	// First pass: dedupe, handler wins over endpoint.
	type key struct {
		exchange       string
		marketType     core.MarketType
		instrumentType core.InstrumentType
		feature        core.Feature
		transport      core.Transport
	}
	best := make(map[key]DiscoveredCapability)
	for _, d := range discovered {
		k := key{d.Exchange, d.MarketType, d.InstrumentType, d.Feature, d.Transport}
		existing, ok := best[k]
		if !ok || (existing.Source == SourceEndpoint && d.Source == SourceHandler) {
			best[k] = d
		}
	}

	out := make(map[string]exchangeMap)
	for _, d := range best {
		mm, ok := out[d.Exchange]
		if !ok {
			mm = make(exchangeMap)
			out[d.Exchange] = mm
		}
		im, ok := mm[d.MarketType]
		if !ok {
			im = make(marketMap)
			mm[d.MarketType] = im
		}
		fm, ok := im[d.InstrumentType]
		if !ok {
			fm = make(instrumentMap)
			im[d.InstrumentType] = fm
		}
		tm, ok := fm[d.Feature]
		if !ok {
			tm = make(featureMap)
			fm[d.Feature] = tm
		}

		status := core.CapabilityStatus{
			Supported:        true,
			Constraints:      d.Constraints,
			StreamMetadata:   d.StreamMetadata,
			LastVerifiedAtMs: now.UnixMilli(),
		}
		if core.FuturesOnlyFeatures[d.Feature] && d.InstrumentType == core.InstrumentSpot {
			status.Supported = false
			status.Reason = fmt.Sprintf("%s requires a futures/perpetual instrument; spot is unsupported", d.Feature)
			status.Recommendations = []core.FallbackOption{
				{Exchange: d.Exchange, MarketType: core.MarketTypeFutures, Reason: "retry with market_type=futures"},
			}
		}
		tm[d.Transport] = status
	}
	return out
}
