package market

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastFinalized() Candle {
	open := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	return Candle{
		OpenTime:  open,
		CloseTime: open + time.Minute.Milliseconds(),
		Open:      99.8,
		High:      100.4,
		Low:       99.6,
		Close:     100.0,
		Volume:    2340,
	}
}

func TestSynthesizer_Synthesize(t *testing.T) {
	synth := NewSynthesizer(rand.New(rand.NewSource(42)))
	last := lastFinalized()

	c := synth.Synthesize(last, time.Minute)

	assert.True(t, c.Provisional)
	assert.Equal(t, last.OpenTime+time.Minute.Milliseconds(), c.OpenTime)
	assert.Equal(t, c.OpenTime+time.Minute.Milliseconds(), c.CloseTime)
	require.NoError(t, c.check())

	// body within ±0.05% of the previous close, wicks within a further 0.1%
	assert.InDelta(t, last.Close, c.Open, last.Close*0.0005)
	assert.InDelta(t, last.Close, c.Close, last.Close*0.0005)
	assert.LessOrEqual(t, c.High, last.Close*1.0005*1.001)
	assert.GreaterOrEqual(t, c.Low, last.Close*0.9995*0.999)

	assert.GreaterOrEqual(t, c.Volume, float64(synthVolumeMin))
	assert.Less(t, c.Volume, float64(synthVolumeMax))
}

func TestSynthesizer_InvariantHoldsUnderRepetition(t *testing.T) {
	synth := NewSynthesizer(rand.New(rand.NewSource(7)))
	last := lastFinalized()

	opens := make(map[float64]struct{})
	closes := make(map[float64]struct{})
	for i := 0; i < 1000; i++ {
		c := synth.Synthesize(last, time.Minute)
		require.NoErrorf(t, c.check(), "call %d produced an invalid candle: %+v", i, c)
		require.True(t, c.Provisional)
		require.Equal(t, last.OpenTime+time.Minute.Milliseconds(), c.OpenTime)
		opens[c.Open] = struct{}{}
		closes[c.Close] = struct{}{}
	}

	// random, not constant
	assert.Greater(t, len(opens), 1)
	assert.Greater(t, len(closes), 1)
}

func TestSynthesizer_DeterministicWithSameSeed(t *testing.T) {
	last := lastFinalized()
	a := NewSynthesizer(rand.New(rand.NewSource(11))).Synthesize(last, time.Minute)
	b := NewSynthesizer(rand.New(rand.NewSource(11))).Synthesize(last, time.Minute)
	assert.Equal(t, a, b)
}
