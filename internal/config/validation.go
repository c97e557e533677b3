package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.Market.validate(); err != nil {
		return err
	}
	if err := c.Chart.validate(); err != nil {
		return err
	}
	return nil
}

func (m *MarketConfig) validate() error {
	if len(m.Sources) == 0 {
		return fmt.Errorf("market.sources requires at least one source")
	}
	activeName := strings.ToLower(strings.TrimSpace(m.ActiveSource))
	enabled := 0
	activeFound := false
	for _, src := range m.Sources {
		if !src.Enabled {
			continue
		}
		enabled++
		if strings.TrimSpace(src.RESTBaseURL) == "" {
			return fmt.Errorf("market source %s missing rest_base_url", src.Name)
		}
		if src.Proxy.Enabled && src.Proxy.RESTURL == "" {
			return fmt.Errorf("market source %s has proxy enabled but no rest_url", src.Name)
		}
		name := strings.ToLower(strings.TrimSpace(src.Name))
		if activeName == "" || name == activeName {
			activeFound = true
		}
	}
	if enabled == 0 {
		return fmt.Errorf("market.sources requires at least one enabled source")
	}
	if !activeFound {
		return fmt.Errorf("enabled market.active_source=%s not found", m.ActiveSource)
	}
	return nil
}

func (c *ChartConfig) validate() error {
	if strings.TrimSpace(c.Symbol) == "" {
		return fmt.Errorf("chart.symbol cannot be empty")
	}
	if !strings.Contains(c.Symbol, "/") {
		return fmt.Errorf("chart.symbol must look like BASE/QUOTE, got %s", c.Symbol)
	}
	if !IsValidInterval(c.Interval) {
		return fmt.Errorf("chart.interval is not a valid interval: %s", c.Interval)
	}
	if c.Window < 10 || c.Window > 500 {
		return fmt.Errorf("chart.window must be in [10,500]")
	}
	if c.RefreshSeconds < 1 || c.RefreshSeconds > 300 {
		return fmt.Errorf("chart.refresh_seconds must be in [1,300]")
	}
	if c.EMAPeriod < 0 {
		return fmt.Errorf("chart.ema_period must be >= 0")
	}
	if c.EMAPeriod >= c.Window {
		return fmt.Errorf("chart.ema_period must be smaller than chart.window")
	}
	return nil
}

// IsValidInterval is a cheap shape check: digits followed by m/h/d/w.
func IsValidInterval(s string) bool {
	if len(s) < 2 {
		return false
	}
	suf := s[len(s)-1]
	if suf != 'm' && suf != 'h' && suf != 'd' && suf != 'w' {
		return false
	}
	for i := 0; i < len(s)-1; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
