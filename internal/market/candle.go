package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvariant marks a series that violates its structural guarantees.
// Seeing it means a bug in assembly or synthesis, not a market condition.
var ErrInvariant = errors.New("market: series invariant violated")

type Candle struct {
	OpenTime    int64   `json:"open_time"`
	CloseTime   int64   `json:"close_time"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	Trades      int64   `json:"trades"`
	Provisional bool    `json:"provisional,omitempty"`
}

func (c Candle) TimeString() string {
	ts := c.OpenTime
	if ts <= 0 {
		return "-"
	}
	return time.UnixMilli(ts).UTC().Format("01-02 15:04")
}

// Bullish reports whether the candle closed at or above its open.
func (c Candle) Bullish() bool { return c.Close >= c.Open }

func (c Candle) check() error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return fmt.Errorf("non-positive price (o=%v h=%v l=%v c=%v)", c.Open, c.High, c.Low, c.Close)
	}
	lo, hi := c.Open, c.Close
	if lo > hi {
		lo, hi = hi, lo
	}
	if c.Low > lo {
		return fmt.Errorf("low %v above body %v", c.Low, lo)
	}
	if c.High < hi {
		return fmt.Errorf("high %v below body %v", c.High, hi)
	}
	if c.Volume < 0 {
		return fmt.Errorf("negative volume %v", c.Volume)
	}
	if c.Trades < 0 {
		return fmt.Errorf("negative trade count %d", c.Trades)
	}
	return nil
}

// Series is one assembled display window, oldest candle first.
type Series []Candle

func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Gaps counts adjacent finalized pairs that are not spaced by exactly
// one period. History gaps are tolerated and passed through, so this is
// informational only.
func (s Series) Gaps(period time.Duration) int {
	step := period.Milliseconds()
	if step <= 0 {
		return 0
	}
	gaps := 0
	for i := 1; i < len(s); i++ {
		if s[i].Provisional || s[i-1].Provisional {
			continue
		}
		if s[i].OpenTime-s[i-1].OpenTime != step {
			gaps++
		}
	}
	return gaps
}

// Validate enforces the guarantees every published series carries:
// positive OHLC with low/high enclosing the body, strictly increasing
// open times, at most one provisional candle sitting in the last slot,
// and the provisional candle opening exactly one period after the last
// finalized one.
func (s Series) Validate(period time.Duration) error {
	for i, c := range s {
		if err := c.check(); err != nil {
			return fmt.Errorf("%w: candle %d: %v", ErrInvariant, i, err)
		}
		if i > 0 && c.OpenTime <= s[i-1].OpenTime {
			return fmt.Errorf("%w: candle %d open time %d not after %d", ErrInvariant, i, c.OpenTime, s[i-1].OpenTime)
		}
		if c.Provisional && i != len(s)-1 {
			return fmt.Errorf("%w: provisional candle at %d is not the last element", ErrInvariant, i)
		}
	}
	if n := len(s); n >= 2 && s[n-1].Provisional {
		want := s[n-2].OpenTime + period.Milliseconds()
		if got := s[n-1].OpenTime; got != want {
			return fmt.Errorf("%w: provisional open time %d, want %d", ErrInvariant, got, want)
		}
	}
	return nil
}
