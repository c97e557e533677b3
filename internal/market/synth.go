package market

import (
	"math"
	"math/rand"
	"time"
)

const (
	// Body jitter keeps open/close within ±0.05% of the last close;
	// wicks stretch up to a further 0.1% beyond the body.
	synthBodyJitter = 0.0005
	synthWickJitter = 0.001
	synthVolumeMin  = 1000
	synthVolumeMax  = 5000
)

// Synthesizer fabricates the one forming candle appended to the window
// each tick. It is a visual-continuity device: open and close wander
// around the last finalized close, and high/low are derived from the
// resulting body afterwards so the OHLC bounds hold by construction.
//
// Not safe for concurrent use; the refresh loop is its only caller.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer builds a Synthesizer driven by rng. A nil rng gets a
// time-seeded source; tests inject a fixed seed.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{rng: rng}
}

// Synthesize produces the provisional candle for the period immediately
// following last.
func (s *Synthesizer) Synthesize(last Candle, period time.Duration) Candle {
	o := last.Close * (1 + s.signed(synthBodyJitter))
	c := last.Close * (1 + s.signed(synthBodyJitter))
	h := math.Max(o, c) * (1 + s.positive(synthWickJitter))
	l := math.Min(o, c) * (1 - s.positive(synthWickJitter))

	openTime := last.OpenTime + period.Milliseconds()
	return Candle{
		OpenTime:    openTime,
		CloseTime:   openTime + period.Milliseconds(),
		Open:        o,
		High:        h,
		Low:         l,
		Close:       c,
		Volume:      synthVolumeMin + s.rng.Float64()*(synthVolumeMax-synthVolumeMin),
		Provisional: true,
	}
}

func (s *Synthesizer) signed(scale float64) float64 {
	return (s.rng.Float64()*2 - 1) * scale
}

func (s *Synthesizer) positive(scale float64) float64 {
	return s.rng.Float64() * scale
}
