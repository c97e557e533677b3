package app

import (
	"context"
	"fmt"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
	"github.com/farzanaesha/crypto-analysis/internal/gateway"
	"github.com/farzanaesha/crypto-analysis/internal/market"
	"github.com/farzanaesha/crypto-analysis/internal/metrics"
	"github.com/farzanaesha/crypto-analysis/internal/scheduler"
	"github.com/farzanaesha/crypto-analysis/internal/store"
	livehttp "github.com/farzanaesha/crypto-analysis/internal/transport/http/live"
)

// AppBuilder assembles the object graph. The constructor funcs are
// injectable so tests can swap the market source or skip metric
// registration.
type AppBuilder struct {
	cfg *appcfg.Config

	sourceFn   func(*appcfg.Config) (market.Source, error)
	serverFn   func(appcfg.AppConfig, *livehttp.Router) (*livehttp.Server, error)
	metricsFn  func() *metrics.Metrics
	synthesize *market.Synthesizer
}

type AppBuilderOption func(*AppBuilder)

// WithSource short-circuits the gateway factory with a pre-built source.
func WithSource(src market.Source) AppBuilderOption {
	return func(b *AppBuilder) {
		b.sourceFn = func(*appcfg.Config) (market.Source, error) { return src, nil }
	}
}

// WithSynthesizer replaces the default time-seeded synthesizer, which
// replay harnesses use to make runs reproducible.
func WithSynthesizer(s *market.Synthesizer) AppBuilderOption {
	return func(b *AppBuilder) { b.synthesize = s }
}

// WithMetricsFactory replaces metric registration; tests pass one that
// returns nil to keep the default registry untouched.
func WithMetricsFactory(fn func() *metrics.Metrics) AppBuilderOption {
	return func(b *AppBuilder) { b.metricsFn = fn }
}

func NewAppBuilder(cfg *appcfg.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:       cfg,
		sourceFn:  gateway.NewSourceFromConfig,
		serverFn:  buildLiveHTTPServer,
		metricsFn: metrics.NewMetrics,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func buildLiveHTTPServer(appCfg appcfg.AppConfig, router *livehttp.Router) (*livehttp.Server, error) {
	return livehttp.NewServer(livehttp.ServerConfig{
		Addr:   appCfg.HTTPAddr,
		Router: router,
	})
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	period, ok := scheduler.ParseIntervalDuration(cfg.Chart.Interval)
	if !ok {
		return nil, fmt.Errorf("unsupported chart interval: %s", cfg.Chart.Interval)
	}

	src, err := b.sourceFn(cfg)
	if err != nil {
		return nil, fmt.Errorf("build market source: %w", err)
	}

	synth := b.synthesize
	if synth == nil {
		synth = market.NewSynthesizer(nil)
	}
	assembler := market.NewAssembler(src, synth, market.AssemblerConfig{
		Symbol:   cfg.Chart.Symbol,
		Interval: cfg.Chart.Interval,
		Period:   period,
		Window:   cfg.Chart.Window,
	})

	m := b.metricsFn()
	snapshots := store.NewSnapshotStore()
	hub := livehttp.NewHub(m)

	router := livehttp.NewRouter(snapshots, hub, cfg.Chart)
	server, err := b.serverFn(cfg.App, router)
	if err != nil {
		return nil, fmt.Errorf("build live http server: %w", err)
	}

	refresher := NewRefresher(assembler, snapshots, hub, m, cfg.Chart)

	return &App{
		cfg:       cfg,
		refresher: refresher,
		liveHTTP:  server,
		Summary:   buildStartupSummary(cfg, sourceName(src)),
	}, nil
}

func sourceName(src market.Source) string {
	type named interface{ Name() string }
	if n, ok := src.(named); ok {
		return n.Name()
	}
	return "custom"
}
