package okx

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

const candlesPayload = `{"code":"0","msg":"","data":[
  ["1700000120000","0.6101","0.6110","0.6095","0.6105","500.0","305.2","305.2","0"],
  ["1700000060000","0.6120","0.6135","0.6090","0.6101","11002.0","6720.5","6720.5","1"],
  ["1700000000000","0.6100","0.6150","0.6080","0.6120","15230.5","9300.1","9300.1","1"]
]}`

func TestFetchRecentFiltersAndReverses(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candlesPayload))
	}))
	defer srv.Close()

	src, err := New(Config{RESTBaseURL: srv.URL, HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)

	candles, err := src.FetchRecent(context.Background(), "XRP/USDT", "1m", 2)
	require.NoError(t, err)

	assert.Equal(t, "/api/v5/market/candles", gotPath)
	assert.Contains(t, gotQuery, "instId=XRP-USDT")
	assert.Contains(t, gotQuery, "bar=1m")
	assert.Contains(t, gotQuery, "limit=3")

	// The forming row is dropped and the rest comes back chronological.
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000000), candles[0].OpenTime)
	assert.Equal(t, int64(1700000059999), candles[0].CloseTime)
	assert.Equal(t, int64(1700000060000), candles[1].OpenTime)
	assert.InDelta(t, 0.6100, candles[0].Open, 1e-9)
	assert.InDelta(t, 0.6150, candles[0].High, 1e-9)
	assert.InDelta(t, 0.6080, candles[0].Low, 1e-9)
	assert.InDelta(t, 0.6120, candles[0].Close, 1e-9)
	assert.InDelta(t, 15230.5, candles[0].Volume, 1e-9)
	assert.False(t, candles[0].Provisional)
}

func TestFetchRecentAPIErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"51001","msg":"Instrument ID does not exist","data":[]}`))
	}))
	defer srv.Close()

	src, err := New(Config{RESTBaseURL: srv.URL, HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = src.FetchRecent(context.Background(), "XRP/USDT", "1m", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrUnavailable)
	assert.Contains(t, err.Error(), "51001")
}

func TestFetchRecentHTTPErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	src, err := New(Config{RESTBaseURL: srv.URL, HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = src.FetchRecent(context.Background(), "XRP/USDT", "1m", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrUnavailable)
}

func TestOKXBar(t *testing.T) {
	assert.Equal(t, "1m", okxBar("1m"))
	assert.Equal(t, "15m", okxBar("15m"))
	assert.Equal(t, "1H", okxBar("1h"))
	assert.Equal(t, "4H", okxBar("4h"))
	assert.Equal(t, "1D", okxBar("1d"))
	assert.Equal(t, "1W", okxBar("1w"))
}
