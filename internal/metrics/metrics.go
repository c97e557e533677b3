// Package metrics exposes Prometheus instrumentation for the refresh loop
// and the live transport.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/farzanaesha/crypto-analysis/internal/market"
)

// Refresh result labels.
const (
	ResultSuccess     = "success"
	ResultUnavailable = "unavailable"
	ResultInvariant   = "invariant_violation"
	ResultError       = "error"
)

// Metrics holds all Prometheus metrics for the window engine.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec // labels: result
	RefreshDuration prometheus.Histogram
	WindowSize      prometheus.Gauge
	LastSuccess     prometheus.Gauge
	WSClients       prometheus.Gauge
}

// NewMetrics registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crypto_analysis_refresh_total",
			Help: "Refresh ticks by outcome",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crypto_analysis_refresh_duration_seconds",
			Help:    "Wall time of one refresh tick",
			Buckets: prometheus.DefBuckets,
		}),
		WindowSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crypto_analysis_window_candles",
			Help: "Candles in the latest published window",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crypto_analysis_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crypto_analysis_ws_clients",
			Help: "Connected live-reload websocket clients",
		}),
	}

	reg.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.WindowSize,
		m.LastSuccess,
		m.WSClients,
	)
	return m
}

// ResultLabel maps a refresh error to its counter label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, market.ErrUnavailable):
		return ResultUnavailable
	case errors.Is(err, market.ErrInvariant):
		return ResultInvariant
	default:
		return ResultError
	}
}
