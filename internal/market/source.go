package market

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the venue could not produce finalized
// candles this cycle. Callers classify with errors.Is; the next refresh
// tick is the retry.
var ErrUnavailable = errors.New("market: data unavailable")

// Source fetches recent finalized candles for one symbol and interval.
//
// Implementations must return candles ascending by open time, finalized
// only (a still-forming last kline is dropped), at most limit entries.
// Gaps in the venue's history are passed through untouched. Every
// failure, including an empty or malformed response, wraps
// ErrUnavailable; implementations never retry internally.
type Source interface {
	FetchRecent(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}
