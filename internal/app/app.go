// Package app composes the refresh loop and the live HTTP server from
// configuration.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
	"github.com/farzanaesha/crypto-analysis/internal/logger"
	"github.com/farzanaesha/crypto-analysis/internal/scheduler"
	livehttp "github.com/farzanaesha/crypto-analysis/internal/transport/http/live"
)

type App struct {
	cfg       *appcfg.Config
	refresher *Refresher
	liveHTTP  *livehttp.Server
	Summary   *StartupSummary
}

// NewApp builds the application object from configuration without
// starting anything.
func NewApp(cfg *appcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run starts the HTTP server and the refresh loop and blocks until ctx
// is cancelled or either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}

	if a.Summary != nil {
		a.Summary.Print()
	}

	if a.refresher == nil {
		return fmt.Errorf("refresher not initialized")
	}
	group, ctx := errgroup.WithContext(ctx)

	if a.liveHTTP != nil {
		group.Go(func() error {
			if err := a.liveHTTP.Start(ctx); err != nil {
				return fmt.Errorf("live http server error: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		sched := scheduler.NewIntervalScheduler(ctx, a.cfg.Chart.RefreshInterval())
		sched.RunImmediately = true
		sched.Start(func() { a.refresher.RunOnce(ctx) })
		return nil
	})

	return group.Wait()
}

// Refresher exposes the refresh driver, mainly for replay harnesses.
func (a *App) Refresher() *Refresher {
	if a == nil {
		return nil
	}
	return a.refresher
}
