package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExchange serves a finite synthetic OHLCV series, honoring limit/start
// query params, to exercise chunked pagination end to end.
func fakeExchange(t *testing.T, perRequestCap int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		limitStr := req.URL.Query().Get("limit")
		limit, _ := strconv.Atoi(limitStr)
		if limit > perRequestCap {
			limit = perRequestCap
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strconv.Itoa(limit)))
	}))
}

func barsAdapter(startUnix int64, step int64) ResponseAdapter {
	return ResponseAdapterFunc(func(body []byte, p Params) (any, error) {
		n, _ := strconv.Atoi(string(body))
		start := p["start_time"].(time.Time)
		bars := make([]core.Bar, 0, n)
		for i := 0; i < n; i++ {
			ts := start.Add(time.Duration(i) * time.Duration(step) * time.Second)
			bars = append(bars, core.Bar{
				Timestamp: ts,
				Open:      decimal.NewFromInt(1),
				High:      decimal.NewFromInt(2),
				Low:       decimal.NewFromInt(1),
				Close:     decimal.NewFromInt(1),
				Volume:    decimal.NewFromInt(10),
				IsClosed:  true,
			})
		}
		return bars, nil
	})
}

func TestFetchOHLCVPaginated_SplitsIntoChunks(t *testing.T) {
	srv := fakeExchange(t, 300)
	defer srv.Close()

	runner := NewRunner(srv.URL, RunnerConfig{}, zerolog.Nop())
	spec := EndpointSpec{
		ID:         "ohlcv",
		Method:     http.MethodGet,
		BuildPath:  func(p Params) (string, error) { return "/ohlcv", nil },
		BuildQuery: func(p Params) (map[string]string, error) { return map[string]string{"limit": strconv.Itoa(p["limit"].(int))}, nil },
	}
	adapter := barsAdapter(0, 60)

	start := time.Unix(0, 0).UTC()
	bars, err := FetchOHLCVPaginated(context.Background(), runner, spec, adapter, Params{}, 60, start, 500, 0, 300)
	require.NoError(t, err)
	assert.Equal(t, 500, len(bars))
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Timestamp.After(bars[i-1].Timestamp), "timestamps must be strictly increasing")
	}
}

func TestFetchOHLCVPaginated_HonorsMaxChunks(t *testing.T) {
	srv := fakeExchange(t, 300)
	defer srv.Close()

	runner := NewRunner(srv.URL, RunnerConfig{}, zerolog.Nop())
	spec := EndpointSpec{
		ID:         "ohlcv",
		BuildPath:  func(p Params) (string, error) { return "/ohlcv", nil },
		BuildQuery: func(p Params) (map[string]string, error) { return map[string]string{"limit": strconv.Itoa(p["limit"].(int))}, nil },
	}
	adapter := barsAdapter(0, 60)

	start := time.Unix(0, 0).UTC()
	bars, err := FetchOHLCVPaginated(context.Background(), runner, spec, adapter, Params{}, 60, start, 900, 1, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, len(bars), "max_chunks=1 should stop after the first chunk")
}
