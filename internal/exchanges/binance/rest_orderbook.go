package binance

import (
	"strconv"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/rest"
	"github.com/shopspring/decimal"
)

func orderBookSpec(mt core.MarketType) rest.EndpointSpec {
	return rest.EndpointSpec{
		ID:     "order_book",
		Method: "GET",
		BuildPath: func(p rest.Params) (string, error) {
			return apiPathPrefix(mt) + "/depth", nil
		},
		BuildQuery: func(p rest.Params) (map[string]string, error) {
			symbol, _ := p["symbol"].(string)
			q := map[string]string{"symbol": symbol, "limit": "100"}
			if limit, ok := p["limit"].(int); ok && limit > 0 {
				q["limit"] = strconv.Itoa(limit)
			}
			return q, nil
		},
	}
}

type orderBookResponse struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

type orderBookAdapter struct{}

func (orderBookAdapter) Parse(body []byte, p rest.Params) (any, error) {
	var raw orderBookResponse
	if err := rest.DecodeJSON(body, &raw); err != nil {
		return nil, &core.ProviderError{Message: "decoding binance depth response", Exchange: "binance", Cause: err}
	}
	symbol, _ := p["symbol"].(string)
	return core.OrderBook{
		Symbol:       symbol,
		LastUpdateID: raw.LastUpdateID,
		Bids:         levels(raw.Bids),
		Asks:         levels(raw.Asks),
		Timestamp:    time.Now().UTC(),
	}, nil
}

func levels(rows [][]string) []core.PriceLevel {
	out := make([]core.PriceLevel, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		price, err1 := decimal.NewFromString(row[0])
		qty, err2 := decimal.NewFromString(row[1])
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, core.PriceLevel{Price: price, Quantity: qty})
	}
	if len(out) == 0 {
		out = append(out, core.PriceLevel{Price: decimal.Zero, Quantity: decimal.Zero})
	}
	return out
}
