package app

import (
	"fmt"
	"strings"
	"time"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
)

type StartupSummary struct {
	Env       string
	Source    string
	Symbol    string
	Interval  string
	Window    int
	Refresh   time.Duration
	EMAPeriod int
	HTTPAddr  string
}

func buildStartupSummary(cfg *appcfg.Config, source string) *StartupSummary {
	return &StartupSummary{
		Env:       cfg.App.Env,
		Source:    source,
		Symbol:    cfg.Chart.Symbol,
		Interval:  cfg.Chart.Interval,
		Window:    cfg.Chart.Window,
		Refresh:   cfg.Chart.RefreshInterval(),
		EMAPeriod: cfg.Chart.EMAPeriod,
		HTTPAddr:  cfg.App.HTTPAddr,
	}
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len("STARTUP SUMMARY")/2, "STARTUP SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[MARKET]")
	fmt.Printf("  source:   %s\n", s.Source)
	fmt.Printf("  symbol:   %s\n", s.Symbol)
	fmt.Printf("  interval: %s\n", s.Interval)
	fmt.Println()

	fmt.Println("[WINDOW]")
	fmt.Printf("  candles:  %d (newest is synthesized)\n", s.Window)
	fmt.Printf("  refresh:  every %s\n", s.Refresh)
	if s.EMAPeriod > 0 {
		fmt.Printf("  overlay:  EMA%d\n", s.EMAPeriod)
	} else {
		fmt.Println("  overlay:  off")
	}
	fmt.Println()

	fmt.Println("[HTTP]")
	fmt.Printf("  addr:     %s (env=%s)\n", s.HTTPAddr, s.Env)
	fmt.Println("  routes:   / /chart /api/series /ws /snapshot.png /healthz /metrics")
	fmt.Println(strings.Repeat("=", 80))
}
