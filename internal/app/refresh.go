package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
	"github.com/farzanaesha/crypto-analysis/internal/logger"
	"github.com/farzanaesha/crypto-analysis/internal/market"
	"github.com/farzanaesha/crypto-analysis/internal/metrics"
	"github.com/farzanaesha/crypto-analysis/internal/store"
	livehttp "github.com/farzanaesha/crypto-analysis/internal/transport/http/live"
)

// Refresher drives one refresh tick: rebuild the window, publish the
// result (or record the failure while keeping the previous window on
// display) and notify websocket clients.
type Refresher struct {
	assembler *market.Assembler
	store     *store.SnapshotStore
	hub       *livehttp.Hub
	metrics   *metrics.Metrics
	chart     appcfg.ChartConfig
	timeout   time.Duration
}

func NewRefresher(assembler *market.Assembler, st *store.SnapshotStore, hub *livehttp.Hub, m *metrics.Metrics, chart appcfg.ChartConfig) *Refresher {
	return &Refresher{
		assembler: assembler,
		store:     st,
		hub:       hub,
		metrics:   m,
		chart:     chart,
		timeout:   chart.RefreshInterval(),
	}
}

// RunOnce is called by the scheduler, one invocation at a time. Each
// tick is bounded by the refresh cadence so a hung fetch cannot pile
// ticks up behind it.
func (r *Refresher) RunOnce(ctx context.Context) {
	refreshID := uuid.NewString()
	start := time.Now()

	tickCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		tickCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	series, err := r.assembler.Refresh(tickCtx)
	dur := time.Since(start)

	var snap store.Snapshot
	if err != nil {
		snap = r.store.Fail(refreshID, err)
		logger.Warnf("[refresh] %s failed after %s: %v", refreshID, dur.Round(time.Millisecond), err)
	} else {
		snap = r.store.Publish(refreshID, series)
		last, _ := series.Last()
		logger.Infof("[refresh] %s seq=%d candles=%d close=%.6f dur=%s",
			refreshID, snap.Sequence, len(series), last.Close, dur.Round(time.Millisecond))
	}

	if r.metrics != nil {
		r.metrics.RefreshTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
		r.metrics.RefreshDuration.Observe(dur.Seconds())
		if err == nil {
			r.metrics.WindowSize.Set(float64(len(series)))
			r.metrics.LastSuccess.Set(float64(snap.UpdatedAt.Unix()))
		}
	}

	r.hub.Broadcast(livehttp.NewUpdateMessage(snap, r.chart))
}
