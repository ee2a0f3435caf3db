package engine

import (
	"testing"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func bar(symbol string, closed bool, ts time.Time, close string) core.StreamingBar {
	return core.StreamingBar{
		Bar: core.Bar{
			Timestamp: ts,
			Close:     decimal.RequireFromString(close),
			IsClosed:  closed,
		},
		Symbol: symbol,
	}
}

func TestFilterState_OnlyClosedDropsOpenBars(t *testing.T) {
	fs := newFilterState()
	now := time.Now()
	assert.False(t, fs.apply(bar("BTCUSDT", false, now, "1"), FilterConfig{OnlyClosed: true}, now))
	assert.True(t, fs.apply(bar("BTCUSDT", true, now, "1"), FilterConfig{OnlyClosed: true}, now))
}

func TestFilterState_DedupeSkipsRepeatedCandle(t *testing.T) {
	fs := newFilterState()
	now := time.Now()
	b := bar("BTCUSDT", false, now, "100")
	assert.True(t, fs.apply(b, FilterConfig{Dedupe: true}, now))
	assert.False(t, fs.apply(b, FilterConfig{Dedupe: true}, now), "identical (symbol, bar_start, close) must be dropped")

	b2 := bar("BTCUSDT", false, now, "101")
	assert.True(t, fs.apply(b2, FilterConfig{Dedupe: true}, now), "a changed close price must not be deduped")
}

func TestFilterState_ThrottleDropsWithinWindowButNotClosedBars(t *testing.T) {
	fs := newFilterState()
	now := time.Now()
	cfg := FilterConfig{ThrottleMs: 1000}

	assert.True(t, fs.apply(bar("BTCUSDT", false, now, "1"), cfg, now))
	assert.False(t, fs.apply(bar("BTCUSDT", false, now, "2"), cfg, now.Add(500*time.Millisecond)), "within throttle window")
	assert.True(t, fs.apply(bar("BTCUSDT", false, now, "3"), cfg, now.Add(1500*time.Millisecond)), "outside throttle window")

	assert.True(t, fs.apply(bar("BTCUSDT", true, now, "4"), cfg, now.Add(1600*time.Millisecond)), "closed bars bypass throttle")
}

func TestFilterState_NonBarRecordsBypassOnlyClosedAndDedupe(t *testing.T) {
	fs := newFilterState()
	now := time.Now()
	trade := core.Trade{Symbol: "BTCUSDT", Price: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(1), Timestamp: now}
	assert.True(t, fs.apply(trade, FilterConfig{OnlyClosed: true, Dedupe: true}, now))
}
