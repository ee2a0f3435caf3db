package binance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/rest"
	"github.com/shopspring/decimal"
)

// ohlcvPerRequestCap is Binance's max klines per request (both spot and
// futures).
const ohlcvPerRequestCap = 1000

func ohlcvSpec(mt core.MarketType) rest.EndpointSpec {
	return rest.EndpointSpec{
		ID:     "ohlcv",
		Method: "GET",
		BuildPath: func(p rest.Params) (string, error) {
			return apiPathPrefix(mt) + "/klines", nil
		},
		BuildQuery: func(p rest.Params) (map[string]string, error) {
			symbol, _ := p["symbol"].(string)
			tf, _ := p["timeframe"].(core.Timeframe)
			interval, ok := intervalMap[tf]
			if !ok {
				return nil, fmt.Errorf("unsupported timeframe %q on binance", tf)
			}
			q := map[string]string{"symbol": symbol, "interval": interval}
			if limit, ok := p["limit"].(int); ok && limit > 0 {
				q["limit"] = strconv.Itoa(limit)
			}
			if start, ok := p["start_time"].(time.Time); ok && !start.IsZero() {
				q["startTime"] = strconv.FormatInt(start.UnixMilli(), 10)
			}
			if end, ok := p["end_time"].(time.Time); ok && !end.IsZero() {
				q["endTime"] = strconv.FormatInt(end.UnixMilli(), 10)
			}
			return q, nil
		},
	}
}

// ohlcvAdapter parses Binance's raw kline arrays:
// [openTime, open, high, low, close, volume, closeTime, ...].
type ohlcvAdapter struct{}

func (ohlcvAdapter) Parse(body []byte, p rest.Params) (any, error) {
	var rows [][]any
	if err := rest.DecodeJSON(body, &rows); err != nil {
		return nil, &core.ProviderError{Message: "decoding binance klines response", Exchange: "binance", Cause: err}
	}
	bars := make([]core.Bar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		openMs, ok := row[0].(float64)
		if !ok {
			continue
		}
		closeMs, _ := row[6].(float64)
		open, err1 := decimal.NewFromString(fmt.Sprint(row[1]))
		high, err2 := decimal.NewFromString(fmt.Sprint(row[2]))
		low, err3 := decimal.NewFromString(fmt.Sprint(row[3]))
		closePrice, err4 := decimal.NewFromString(fmt.Sprint(row[4]))
		volume, err5 := decimal.NewFromString(fmt.Sprint(row[5]))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		bars = append(bars, core.Bar{
			Timestamp: time.UnixMilli(int64(openMs)).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			IsClosed:  closeMs > 0 && closeMs <= float64(time.Now().UnixMilli()),
		})
	}
	return bars, nil
}
