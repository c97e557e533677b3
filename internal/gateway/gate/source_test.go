package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farzanaesha/crypto-analysis/internal/market"
)

const candlesticksPayload = `[
  {"t":1700000000,"v":123,"c":"0.6120","h":"0.6150","l":"0.6080","o":"0.6100","sum":"9300.12"},
  {"t":1700000060,"v":98,"c":"0.6101","h":"0.6135","l":"0.6090","o":"0.6120","sum":"6720.55"}
]`

func TestFetchRecentMapsCandlesticks(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candlesticksPayload))
	}))
	defer srv.Close()

	src, err := New(Config{RESTBaseURL: srv.URL, HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)

	candles, err := src.FetchRecent(context.Background(), "XRP/USDT", "1m", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, "/futures/usdt/candlesticks", gotPath)
	assert.Contains(t, gotQuery, "contract=XRP_USDT")
	assert.Contains(t, gotQuery, "interval=1m")
	assert.Contains(t, gotQuery, "limit=2")

	first := candles[0]
	assert.Equal(t, int64(1700000000000), first.OpenTime)
	assert.Equal(t, int64(1700000059999), first.CloseTime)
	assert.InDelta(t, 0.6100, first.Open, 1e-9)
	assert.InDelta(t, 0.6150, first.High, 1e-9)
	assert.InDelta(t, 0.6080, first.Low, 1e-9)
	assert.InDelta(t, 0.6120, first.Close, 1e-9)
	assert.InDelta(t, 9300.12, first.Volume, 1e-9)
}

func TestFetchRecentGateErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"label":"SERVER_ERROR","message":"internal"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, err := New(Config{RESTBaseURL: srv.URL, HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = src.FetchRecent(context.Background(), "XRP/USDT", "1m", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrUnavailable)
}

func TestFetchRecentRequiresSymbol(t *testing.T) {
	src, err := New(Config{RESTBaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	_, err = src.FetchRecent(context.Background(), "", "1m", 10)
	assert.Error(t, err)
}
