package binance

import (
	"strconv"
	"strings"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/wsadapter"
	"github.com/segmentio/encoding/json"
	"github.com/shopspring/decimal"
)

func tradesWSSpec(mt core.MarketType) wsadapter.EndpointSpec {
	single := wsSingleURLs[mt]
	combined := wsCombinedURLs[mt]
	return wsadapter.EndpointSpec{
		ID:                      "trades",
		CombinedSupported:       combined != "",
		MaxStreamsPerConnection: 1024,
		SymbolScope:             "symbol",
		BuildStreamName: func(symbol string, p wsadapter.StreamParams) (string, error) {
			return strings.ToLower(symbol) + "@trade", nil
		},
		BuildSingleURL: func(streamName string) (string, error) {
			return single + "/" + streamName, nil
		},
		BuildCombinedURL: func(streamNames []string) (string, error) {
			return combined + "?streams=" + strings.Join(streamNames, "/"), nil
		},
	}
}

type tradeFrameData struct {
	Symbol       string `json:"s"`
	TradeID      int64  `json:"t"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

type tradeFrame struct {
	Data *tradeFrameData `json:"data"`
	tradeFrameData
}

var tradesMessageAdapter = wsadapter.MessageAdapterFuncs{
	IsRelevantFunc: func(raw []byte) bool {
		s := string(raw)
		return strings.Contains(s, `"e":"trade"`)
	},
	ParseFunc: func(raw []byte) ([]any, error) {
		var frame tradeFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, nil
		}
		d := &frame.tradeFrameData
		if d.Symbol == "" && frame.Data != nil {
			d = frame.Data
		}
		if d.Symbol == "" {
			return nil, nil
		}
		price, err1 := decimal.NewFromString(d.Price)
		qty, err2 := decimal.NewFromString(d.Quantity)
		if err1 != nil || err2 != nil {
			return nil, nil
		}
		idStr := strconv.FormatInt(d.TradeID, 10)
		return []any{core.Trade{
			Symbol:        d.Symbol,
			TradeID:       &idStr,
			Price:         price,
			Quantity:      qty,
			QuoteQuantity: price.Mul(qty),
			Timestamp:     time.UnixMilli(d.TradeTime).UTC(),
			IsBuyerMaker:  d.IsBuyerMaker,
		}}, nil
	},
}
