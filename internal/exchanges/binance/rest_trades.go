package binance

import (
	"strconv"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/rest"
	"github.com/shopspring/decimal"
)

func tradesSpec(mt core.MarketType) rest.EndpointSpec {
	return rest.EndpointSpec{
		ID:     "trades",
		Method: "GET",
		BuildPath: func(p rest.Params) (string, error) {
			if fromID, ok := p["from_id"].(string); ok && fromID != "" {
				return apiPathPrefix(mt) + "/historicalTrades", nil
			}
			return apiPathPrefix(mt) + "/trades", nil
		},
		BuildQuery: func(p rest.Params) (map[string]string, error) {
			symbol, _ := p["symbol"].(string)
			q := map[string]string{"symbol": symbol, "limit": "500"}
			if limit, ok := p["limit"].(int); ok && limit > 0 {
				q["limit"] = strconv.Itoa(limit)
			}
			if fromID, ok := p["from_id"].(string); ok && fromID != "" {
				q["fromId"] = fromID
			}
			return q, nil
		},
	}
}

type tradeRow struct {
	ID           int64  `json:"id"`
	Price        string `json:"price"`
	Qty          string `json:"qty"`
	QuoteQty     string `json:"quoteQty"`
	Time         int64  `json:"time"`
	IsBuyerMaker bool   `json:"isBuyerMaker"`
	IsBestMatch  bool   `json:"isBestMatch"`
}

type tradesAdapter struct{}

func (tradesAdapter) Parse(body []byte, p rest.Params) (any, error) {
	var rows []tradeRow
	if err := rest.DecodeJSON(body, &rows); err != nil {
		return nil, &core.ProviderError{Message: "decoding binance trades response", Exchange: "binance", Cause: err}
	}
	symbol, _ := p["symbol"].(string)
	out := make([]core.Trade, 0, len(rows))
	for _, row := range rows {
		price, err1 := decimal.NewFromString(row.Price)
		qty, err2 := decimal.NewFromString(row.Qty)
		if err1 != nil || err2 != nil {
			continue
		}
		quoteQty, _ := decimal.NewFromString(row.QuoteQty)
		idStr := strconv.FormatInt(row.ID, 10)
		bestMatch := row.IsBestMatch
		out = append(out, core.Trade{
			Symbol:        symbol,
			TradeID:       &idStr,
			Price:         price,
			Quantity:      qty,
			QuoteQuantity: quoteQty,
			Timestamp:     time.UnixMilli(row.Time).UTC(),
			IsBuyerMaker:  row.IsBuyerMaker,
			IsBestMatch:   &bestMatch,
		})
	}
	return out, nil
}
