package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func minuteCandle(slot int, provisional bool) Candle {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	open := base + int64(slot)*time.Minute.Milliseconds()
	return Candle{
		OpenTime:    open,
		CloseTime:   open + time.Minute.Milliseconds(),
		Open:        100,
		High:        101,
		Low:         99,
		Close:       100.5,
		Volume:      1200,
		Provisional: provisional,
	}
}

func TestSeriesValidate(t *testing.T) {
	valid := Series{minuteCandle(0, false), minuteCandle(1, false), minuteCandle(2, true)}

	t.Run("valid series", func(t *testing.T) {
		assert.NoError(t, valid.Validate(time.Minute))
	})

	t.Run("empty series", func(t *testing.T) {
		assert.NoError(t, Series{}.Validate(time.Minute))
	})

	t.Run("low above body", func(t *testing.T) {
		s := Series{minuteCandle(0, false)}
		s[0].Low = s[0].Open + 1
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("high below body", func(t *testing.T) {
		s := Series{minuteCandle(0, false)}
		s[0].High = s[0].Close - 1
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("non-positive price", func(t *testing.T) {
		s := Series{minuteCandle(0, false)}
		s[0].Open = 0
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("negative volume", func(t *testing.T) {
		s := Series{minuteCandle(0, false)}
		s[0].Volume = -1
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("open times must increase", func(t *testing.T) {
		s := Series{minuteCandle(1, false), minuteCandle(0, false)}
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("provisional must be last", func(t *testing.T) {
		s := Series{minuteCandle(0, true), minuteCandle(1, false)}
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("two provisional candles", func(t *testing.T) {
		s := Series{minuteCandle(0, false), minuteCandle(1, true), minuteCandle(2, true)}
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("provisional spaced wrong", func(t *testing.T) {
		s := Series{minuteCandle(0, false), minuteCandle(3, true)}
		assert.ErrorIs(t, s.Validate(time.Minute), ErrInvariant)
	})

	t.Run("historical gap tolerated", func(t *testing.T) {
		s := Series{minuteCandle(0, false), minuteCandle(4, false), minuteCandle(5, true)}
		assert.NoError(t, s.Validate(time.Minute))
		assert.Equal(t, 1, s.Gaps(time.Minute))
	})
}

func TestSeriesLast(t *testing.T) {
	_, ok := Series{}.Last()
	assert.False(t, ok)

	s := Series{minuteCandle(0, false), minuteCandle(1, true)}
	last, ok := s.Last()
	assert.True(t, ok)
	assert.True(t, last.Provisional)
}

func TestCandleBullish(t *testing.T) {
	c := minuteCandle(0, false)
	assert.True(t, c.Bullish())
	c.Close = c.Open - 1
	assert.False(t, c.Bullish())
}

func TestCandleTimeString(t *testing.T) {
	c := minuteCandle(0, false)
	assert.Equal(t, "03-01 10:00", c.TimeString())
	assert.Equal(t, "-", Candle{}.TimeString())
}
