package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/farzanaesha/crypto-analysis/internal/market"
)

func klinesEndingAt(lastOpen time.Time, n int, interval time.Duration) []market.Candle {
	out := make([]market.Candle, 0, n)
	for i := n - 1; i >= 0; i-- {
		open := lastOpen.Add(-time.Duration(i) * interval)
		out = append(out, market.Candle{
			OpenTime:  open.UnixMilli(),
			CloseTime: open.Add(interval).UnixMilli(),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 1,
		})
	}
	return out
}

func TestDropUnclosedKline(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 30, 0, time.UTC)
	interval := time.Minute

	t.Run("forming last kline dropped", func(t *testing.T) {
		ks := klinesEndingAt(now.Truncate(interval), 5, interval)
		got := dropUnclosedKlineAt(ks, interval, now, DefaultKlineGrace)
		assert.Len(t, got, 4)
		assert.Equal(t, ks[3], got[3])
	})

	t.Run("kline inside grace window dropped", func(t *testing.T) {
		// closed 5s before now, grace 10s: still suspect, drop it
		lastOpen := now.Add(-5 * time.Second).Add(-interval).Truncate(time.Second)
		ks := klinesEndingAt(lastOpen, 3, interval)
		got := dropUnclosedKlineAt(ks, interval, now, 10*time.Second)
		assert.Len(t, got, 2)
	})

	t.Run("settled history kept", func(t *testing.T) {
		lastOpen := now.Add(-2 * interval)
		ks := klinesEndingAt(lastOpen, 3, interval)
		got := dropUnclosedKlineAt(ks, interval, now, DefaultKlineGrace)
		assert.Len(t, got, 3)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, dropUnclosedKlineAt(nil, interval, now, DefaultKlineGrace))
	})

	t.Run("non-positive interval untouched", func(t *testing.T) {
		ks := klinesEndingAt(now, 2, interval)
		assert.Len(t, dropUnclosedKlineAt(ks, 0, now, DefaultKlineGrace), 2)
	})

	t.Run("zero open time untouched", func(t *testing.T) {
		ks := []market.Candle{{OpenTime: 0}}
		assert.Len(t, dropUnclosedKlineAt(ks, interval, now, DefaultKlineGrace), 1)
	})

	t.Run("negative grace clamped", func(t *testing.T) {
		lastOpen := now.Add(-interval - time.Second)
		ks := klinesEndingAt(lastOpen, 2, interval)
		got := dropUnclosedKlineAt(ks, interval, now, -time.Second)
		assert.Len(t, got, 2)
	})
}
