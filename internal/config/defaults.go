package config

import (
	"fmt"
	"strings"
)

const (
	defaultAppEnv        = "dev"
	defaultAppLogLevel   = "info"
	defaultAppHTTPAddr   = ":8089"
	defaultAppLogPath    = "logs/crypto-analysis.log"
	defaultMarketName    = "binance"
	defaultMarketTimeout = 10
	defaultChartSymbol   = "XRP/USDT"
	defaultChartInterval = "1m"
	defaultChartWindow   = 60
	defaultChartRefresh  = 5
	defaultChartEMA      = 9
)

var defaultSourceREST = map[string]string{
	"binance": "https://api.binance.com",
	"okx":     "https://www.okx.com",
	"gate":    "https://api.gateio.ws/api/v4",
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Market.applyDefaults(keys)
	c.Chart.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
	)
}

func (c *ChartConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("chart.symbol", &c.Symbol, defaultChartSymbol),
		stringFieldDefault("chart.interval", &c.Interval, defaultChartInterval),
		fieldDefault{
			key:   "chart.window",
			need:  func() bool { return c.Window <= 0 },
			apply: func() { c.Window = defaultChartWindow },
		},
		fieldDefault{
			key:   "chart.refresh_seconds",
			need:  func() bool { return c.RefreshSeconds <= 0 },
			apply: func() { c.RefreshSeconds = defaultChartRefresh },
		},
		fieldDefault{
			// explicit ema_period = 0 keeps the overlay off
			key:   "chart.ema_period",
			need:  func() bool { return c.EMAPeriod == 0 },
			apply: func() { c.EMAPeriod = defaultChartEMA },
		},
	)
}

func (m *MarketConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	if len(m.Sources) == 0 {
		m.Sources = []MarketSource{{
			Name:           defaultMarketName,
			Enabled:        true,
			RESTBaseURL:    defaultSourceREST[defaultMarketName],
			TimeoutSeconds: defaultMarketTimeout,
		}}
	}
	for i := range m.Sources {
		src := &m.Sources[i]
		src.Proxy.normalize()
		if strings.TrimSpace(src.Name) == "" {
			if i == 0 {
				src.Name = defaultMarketName
			} else {
				src.Name = fmt.Sprintf("market_%d", i)
			}
		}
		if src.RESTBaseURL == "" {
			src.RESTBaseURL = defaultSourceREST[strings.ToLower(src.Name)]
		}
		if src.TimeoutSeconds <= 0 {
			src.TimeoutSeconds = defaultMarketTimeout
		}
	}
	if strings.TrimSpace(m.ActiveSource) == "" {
		m.ActiveSource = firstEnabledMarket(m.Sources)
	}
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func firstEnabledMarket(sources []MarketSource) string {
	for _, src := range sources {
		name := strings.TrimSpace(src.Name)
		if src.Enabled && name != "" {
			return name
		}
	}
	if len(sources) > 0 {
		if name := strings.TrimSpace(sources[0].Name); name != "" {
			return name
		}
	}
	return defaultMarketName
}
