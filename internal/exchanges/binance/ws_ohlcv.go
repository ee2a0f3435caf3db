package binance

import (
	"fmt"
	"strings"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/wsadapter"
	"github.com/segmentio/encoding/json"
	"github.com/shopspring/decimal"
)

// ohlcvWSSpec builds the kline stream spec: URL-encoded, no post-connect
// subscribe frame, combined via ?streams=a/b/c.
func ohlcvWSSpec(mt core.MarketType) wsadapter.EndpointSpec {
	single := wsSingleURLs[mt]
	combined := wsCombinedURLs[mt]
	maxStreams := 1024
	if mt == core.MarketTypeFutures {
		maxStreams = 200
	}
	return wsadapter.EndpointSpec{
		ID:                      "ohlcv",
		CombinedSupported:       combined != "",
		MaxStreamsPerConnection: maxStreams,
		SymbolScope:             "symbol",
		BuildStreamName: func(symbol string, p wsadapter.StreamParams) (string, error) {
			tf, _ := p["timeframe"].(core.Timeframe)
			interval, ok := intervalMap[tf]
			if !ok {
				return "", fmt.Errorf("unsupported timeframe %q on binance", tf)
			}
			return fmt.Sprintf("%s@kline_%s", strings.ToLower(symbol), interval), nil
		},
		BuildSingleURL: func(streamName string) (string, error) {
			return single + "/" + streamName, nil
		},
		BuildCombinedURL: func(streamNames []string) (string, error) {
			return combined + "?streams=" + strings.Join(streamNames, "/"), nil
		},
	}
}

type klineData struct {
	Symbol string `json:"s"`
	Open   string `json:"o"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Close  string `json:"c"`
	Volume string `json:"v"`
	Start  int64  `json:"t"`
	Closed bool   `json:"x"`
}

type klineFrame struct {
	Data *struct {
		K klineData `json:"k"`
	} `json:"data"`
	K *klineData `json:"k"`
}

// ohlcvMessageAdapter handles both the combined-stream envelope
// ({"stream":...,"data":{"k":...}}) and the single-stream shape
// ({"k":...}) Binance uses depending on which URL the engine dialed.
var ohlcvMessageAdapter = wsadapter.MessageAdapterFuncs{
	IsRelevantFunc: func(raw []byte) bool {
		return strings.Contains(string(raw), `"k":{`) || strings.Contains(string(raw), `"k": {`)
	},
	ParseFunc: func(raw []byte) ([]any, error) {
		var frame klineFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, nil // per-message parse failure: discard, stream continues
		}
		k := frame.K
		if k == nil && frame.Data != nil {
			k = &frame.Data.K
		}
		if k == nil || k.Symbol == "" {
			return nil, nil
		}
		open, err1 := decimal.NewFromString(k.Open)
		high, err2 := decimal.NewFromString(k.High)
		low, err3 := decimal.NewFromString(k.Low)
		closePrice, err4 := decimal.NewFromString(k.Close)
		volume, err5 := decimal.NewFromString(k.Volume)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return nil, nil
		}
		bar := core.StreamingBar{
			Bar: core.Bar{
				Timestamp: time.UnixMilli(k.Start).UTC(),
				Open:      open,
				High:      high,
				Low:       low,
				Close:     closePrice,
				Volume:    volume,
				IsClosed:  k.Closed,
			},
			Symbol: k.Symbol,
		}
		return []any{bar}, nil
	},
}
