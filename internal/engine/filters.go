package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
)

// FilterConfig is the per-subscription filter configuration applied to
// every record in order: only_closed, dedupe, throttle.
type FilterConfig struct {
	OnlyClosed bool
	Dedupe     bool
	ThrottleMs int
}

// filterState holds the per-symbol state the filters need across the
// lifetime of one Stream call; shared by all chunk readers feeding that
// stream so throttling/dedup is correct across chunk boundaries.
type filterState struct {
	mu            sync.Mutex
	lastDedupeKey map[string]string
	lastEmit      map[string]time.Time
}

func newFilterState() *filterState {
	return &filterState{
		lastDedupeKey: make(map[string]string),
		lastEmit:      make(map[string]time.Time),
	}
}

// recordMeta extracts (symbol, isClosedBar, dedupeKey, hasCloseness) for the
// record types the only_closed/dedupe filters apply to (OHLCV only, per
// closed-ness). Other record types report hasCloseness=false so only_closed/
// dedupe never apply, and a symbol for throttling.
func recordMeta(record any) (symbol string, isClosed bool, dedupeKey string, hasCloseness bool) {
	switch r := record.(type) {
	case core.StreamingBar:
		key := fmt.Sprintf("%s|%d|%s", r.Symbol, r.Timestamp.UnixMilli(), r.Close.String())
		return r.Symbol, r.IsClosed, key, true
	case core.Trade:
		return r.Symbol, true, "", false
	case core.OrderBook:
		return r.Symbol, true, "", false
	case core.FundingRate:
		return r.Symbol, true, "", false
	case core.OpenInterest:
		return r.Symbol, true, "", false
	case core.MarkPrice:
		return r.Symbol, true, "", false
	case core.Liquidation:
		return r.Symbol, true, "", false
	default:
		return "", true, "", false
	}
}

// apply runs the three filters in spec order and reports whether record
// should be emitted.
func (f *filterState) apply(record any, cfg FilterConfig, now time.Time) bool {
	symbol, isClosed, dedupeKey, hasCloseness := recordMeta(record)

	if cfg.OnlyClosed && hasCloseness && !isClosed {
		return false
	}

	if cfg.Dedupe && hasCloseness && dedupeKey != "" {
		f.mu.Lock()
		last, ok := f.lastDedupeKey[symbol]
		if ok && last == dedupeKey {
			f.mu.Unlock()
			return false
		}
		f.lastDedupeKey[symbol] = dedupeKey
		f.mu.Unlock()
	}

	// Throttle never applies to closed bars.
	if cfg.ThrottleMs > 0 && !(hasCloseness && isClosed) {
		f.mu.Lock()
		last, ok := f.lastEmit[symbol]
		if ok && now.Sub(last) < time.Duration(cfg.ThrottleMs)*time.Millisecond {
			f.mu.Unlock()
			return false
		}
		f.lastEmit[symbol] = now
		f.mu.Unlock()
	}

	return true
}
