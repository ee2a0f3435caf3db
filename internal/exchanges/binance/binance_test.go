package binance

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/rest"
)

func TestURM_ToExchangeSymbol_ConcatenatesBaseAndQuote(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentSpot)
	require.NoError(t, err)

	sym, err := URM{}.ToExchangeSymbol(spec, core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", sym)
}

func TestURM_ToExchangeSymbol_RejectsFuturesOnlyInstrumentTypes(t *testing.T) {
	spec, err := core.NewInstrumentSpec("BTC", "USDT", core.InstrumentFuture)
	require.NoError(t, err)

	_, err = URM{}.ToExchangeSymbol(spec, core.MarketTypeFutures)
	require.Error(t, err)
	var symErr *core.SymbolResolutionError
	assert.ErrorAs(t, err, &symErr)
}

func TestURM_ToSpec_SplitsKnownQuoteAssets(t *testing.T) {
	spec, err := URM{}.ToSpec("ETHUSDT", core.MarketTypeSpot)
	require.NoError(t, err)
	assert.Equal(t, "ETH", spec.Base)
	assert.Equal(t, "USDT", spec.Quote)
}

func TestURM_ToSpec_UnknownQuoteErrors(t *testing.T) {
	_, err := URM{}.ToSpec("NOTASYMBOL", core.MarketTypeSpot)
	require.Error(t, err)
}

func TestOHLCVAdapter_ParsesKlineRows(t *testing.T) {
	body := []byte(`[
		[1625097600000, "35000.00", "35500.00", "34900.00", "35200.00", "120.5", 1625097659999, "0", 0, "0", "0", "0"]
	]`)
	result, err := ohlcvAdapter{}.Parse(body, rest.Params{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	bars, ok := result.([]core.Bar)
	require.True(t, ok)
	require.Len(t, bars, 1)
	assert.True(t, bars[0].Open.Equal(mustDecimal("35000.00")))
	assert.True(t, bars[0].Close.Equal(mustDecimal("35200.00")))
}

func TestOHLCVAdapter_SkipsMalformedRows(t *testing.T) {
	body := []byte(`[["not-a-number", "35000.00"]]`)
	result, err := ohlcvAdapter{}.Parse(body, rest.Params{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	bars := result.([]core.Bar)
	assert.Empty(t, bars)
}

func TestOrderBookAdapter_ParsesBidsAndAsks(t *testing.T) {
	body := []byte(`{"lastUpdateId": 42, "bids": [["35000.00","1.5"]], "asks": [["35010.00","2.0"]]}`)
	result, err := orderBookAdapter{}.Parse(body, rest.Params{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	ob := result.(core.OrderBook)
	assert.Equal(t, int64(42), ob.LastUpdateID)
	require.Len(t, ob.Bids, 1)
	require.Len(t, ob.Asks, 1)
	assert.True(t, ob.Bids[0].Price.Equal(mustDecimal("35000.00")))
}

func TestOrderBookAdapter_EmptyBookFallsBackToZeroLevel(t *testing.T) {
	body := []byte(`{"lastUpdateId": 1, "bids": [], "asks": []}`)
	result, err := orderBookAdapter{}.Parse(body, rest.Params{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	ob := result.(core.OrderBook)
	require.Len(t, ob.Bids, 1)
	assert.True(t, ob.Bids[0].Price.IsZero())
}

func TestTradesAdapter_ParsesRows(t *testing.T) {
	body := []byte(`[{"id": 100, "price": "35000.00", "qty": "0.5", "quoteQty": "17500.00", "time": 1625097600000, "isBuyerMaker": true, "isBestMatch": true}]`)
	result, err := tradesAdapter{}.Parse(body, rest.Params{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	trades := result.([]core.Trade)
	require.Len(t, trades, 1)
	assert.Equal(t, "BTCUSDT", trades[0].Symbol)
	assert.True(t, trades[0].IsBuyerMaker)
}

func TestTradesSpec_SwitchesPathOnFromID(t *testing.T) {
	spec := tradesSpec(core.MarketTypeSpot)
	path, err := spec.BuildPath(rest.Params{})
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/trades", path)

	path, err = spec.BuildPath(rest.Params{"from_id": "123"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/historicalTrades", path)
}

func TestOHLCVMessageAdapter_ParsesSingleStreamFrame(t *testing.T) {
	frame := []byte(`{"e":"kline","s":"BTCUSDT","k":{"s":"BTCUSDT","o":"35000.00","h":"35500.00","l":"34900.00","c":"35200.00","v":"120.5","t":1625097600000,"x":true}}`)
	require.True(t, ohlcvMessageAdapter.IsRelevant(frame))
	records, err := ohlcvMessageAdapter.Parse(frame)
	require.NoError(t, err)
	require.Len(t, records, 1)
	bar := records[0].(core.StreamingBar)
	assert.Equal(t, "BTCUSDT", bar.Symbol)
	assert.True(t, bar.Bar.IsClosed)
}

func TestOHLCVMessageAdapter_ParsesCombinedStreamFrame(t *testing.T) {
	frame := []byte(`{"stream":"btcusdt@kline_1m","data":{"e":"kline","s":"BTCUSDT","k":{"s":"BTCUSDT","o":"35000.00","h":"35500.00","l":"34900.00","c":"35200.00","v":"120.5","t":1625097600000,"x":false}}}`)
	require.True(t, ohlcvMessageAdapter.IsRelevant(frame))
	records, err := ohlcvMessageAdapter.Parse(frame)
	require.NoError(t, err)
	require.Len(t, records, 1)
	bar := records[0].(core.StreamingBar)
	assert.Equal(t, "BTCUSDT", bar.Symbol)
	assert.False(t, bar.Bar.IsClosed)
}

func TestTradesMessageAdapter_ParsesSingleStreamFrame(t *testing.T) {
	frame := []byte(`{"e":"trade","s":"BTCUSDT","t":12345,"p":"35000.00","q":"0.5","T":1625097600000,"m":false}`)
	require.True(t, tradesMessageAdapter.IsRelevant(frame))
	records, err := tradesMessageAdapter.Parse(frame)
	require.NoError(t, err)
	require.Len(t, records, 1)
	trade := records[0].(core.Trade)
	assert.Equal(t, "BTCUSDT", trade.Symbol)
	assert.False(t, trade.IsBuyerMaker)
}

func TestTradesMessageAdapter_ParsesCombinedStreamFrame(t *testing.T) {
	frame := []byte(`{"stream":"btcusdt@trade","data":{"e":"trade","s":"BTCUSDT","t":12345,"p":"35000.00","q":"0.5","T":1625097600000,"m":true}}`)
	require.True(t, tradesMessageAdapter.IsRelevant(frame))
	records, err := tradesMessageAdapter.Parse(frame)
	require.NoError(t, err)
	require.Len(t, records, 1)
	trade := records[0].(core.Trade)
	assert.True(t, trade.IsBuyerMaker)
}

func TestOHLCVWSSpec_BuildsStreamNameAndURLs(t *testing.T) {
	spec := ohlcvWSSpec(core.MarketTypeSpot)
	name, err := spec.BuildStreamName("BTCUSDT", map[string]any{"timeframe": core.TF1m})
	require.NoError(t, err)
	assert.Equal(t, "btcusdt@kline_1m", name)

	single, err := spec.BuildSingleURL(name)
	require.NoError(t, err)
	assert.Contains(t, single, "stream.binance.com")

	combined, err := spec.BuildCombinedURL([]string{name, "ethusdt@kline_1m"})
	require.NoError(t, err)
	assert.Contains(t, combined, "streams=btcusdt@kline_1m/ethusdt@kline_1m")
}

func TestOHLCVWSSpec_UnsupportedTimeframeErrors(t *testing.T) {
	spec := ohlcvWSSpec(core.MarketTypeSpot)
	_, err := spec.BuildStreamName("BTCUSDT", map[string]any{"timeframe": core.Timeframe("bogus")})
	assert.Error(t, err)
}

func TestFetchOHLCV_PaginatesAgainstLiveServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[1625097600000,"35000.00","35500.00","34900.00","35200.00","120.5",1625097659999,"0",0,"0","0","0"]]`))
	}))
	defer srv.Close()

	runner := rest.NewRunner(srv.URL, rest.RunnerConfig{}, zerolog.Nop())
	p := &Provider{marketType: core.MarketTypeSpot, runner: runner}

	result, err := FetchOHLCV(p, map[string]any{
		"symbol": "BTCUSDT", "timeframe": core.TF1m, "limit": 1,
	})
	require.NoError(t, err)
	ohlcv := result.(core.OHLCV)
	require.Len(t, ohlcv.Bars, 1)
	assert.Equal(t, "BTCUSDT", ohlcv.Meta.Symbol)
}

func TestFetchOrderBook_ReturnsParsedBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lastUpdateId":7,"bids":[["100.0","1.0"]],"asks":[["101.0","1.0"]]}`))
	}))
	defer srv.Close()

	runner := rest.NewRunner(srv.URL, rest.RunnerConfig{}, zerolog.Nop())
	p := &Provider{marketType: core.MarketTypeSpot, runner: runner}

	result, err := FetchOrderBook(p, map[string]any{"symbol": "BTCUSDT"})
	require.NoError(t, err)
	ob := result.(core.OrderBook)
	assert.Equal(t, int64(7), ob.LastUpdateID)
}

func TestFetchOHLCV_RejectsWrongInstanceType(t *testing.T) {
	_, err := FetchOHLCV(wrongInstance{}, map[string]any{})
	assert.Error(t, err)
}

type wrongInstance struct{}

func (wrongInstance) Close() error { return nil }
func (wrongInstance) Closed() bool { return false }

func mustDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}
