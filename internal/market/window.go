package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farzanaesha/crypto-analysis/internal/logger"
)

// AssemblerConfig is fixed at startup and never mutated afterwards.
type AssemblerConfig struct {
	Symbol   string
	Interval string
	Period   time.Duration
	Window   int
}

// Assembler rebuilds the display window from scratch on every refresh:
// fetch the newest finalized candles, append one synthesized forming
// candle, trim to the window size. It keeps no state between calls
// beyond its configuration, so concurrent calls would be safe; the
// scheduler serializes them anyway.
type Assembler struct {
	src   Source
	synth *Synthesizer
	cfg   AssemblerConfig
}

func NewAssembler(src Source, synth *Synthesizer, cfg AssemblerConfig) *Assembler {
	return &Assembler{src: src, synth: synth, cfg: cfg}
}

// Refresh produces the next series or fails with ErrUnavailable. It
// never returns a partial result: the caller either gets a series that
// passed validation or keeps whatever it had.
func (a *Assembler) Refresh(ctx context.Context) (Series, error) {
	limit := a.cfg.Window
	if limit <= 0 {
		limit = 60
	}

	candles, err := a.src.FetchRecent(ctx, a.cfg.Symbol, a.cfg.Interval, limit)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: source returned no finalized candles", ErrUnavailable)
	}

	last := candles[len(candles)-1]
	forming := a.synth.Synthesize(last, a.cfg.Period)

	series := make(Series, 0, len(candles)+1)
	series = append(series, candles...)
	series = append(series, forming)
	if len(series) > limit {
		series = series[len(series)-limit:]
	}

	if gaps := series.Gaps(a.cfg.Period); gaps > 0 {
		logger.Debugf("[window] %s %s history has %d gap(s), passing through", a.cfg.Symbol, a.cfg.Interval, gaps)
	}
	if err := series.Validate(a.cfg.Period); err != nil {
		return nil, err
	}
	return series, nil
}
