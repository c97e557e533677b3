package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  env: dev\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8089", cfg.App.HTTPAddr)
	assert.Equal(t, "XRP/USDT", cfg.Chart.Symbol)
	assert.Equal(t, "1m", cfg.Chart.Interval)
	assert.Equal(t, 60, cfg.Chart.Window)
	assert.Equal(t, 5, cfg.Chart.RefreshSeconds)
	assert.Equal(t, 9, cfg.Chart.EMAPeriod)

	src := cfg.Market.ResolveActiveSource()
	assert.Equal(t, "binance", src.Name)
	assert.Equal(t, "https://api.binance.com", src.RESTBaseURL)
	assert.Equal(t, 10, src.TimeoutSeconds)
}

func TestLoadExplicitZeroEMADisablesOverlay(t *testing.T) {
	path := writeConfig(t, "chart:\n  ema_period: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Chart.EMAPeriod)
}

func TestLoadRejectsBadChartValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"window too small", "chart:\n  window: 5\n"},
		{"refresh too large", "chart:\n  refresh_seconds: 999\n"},
		{"bad interval", "chart:\n  interval: fast\n"},
		{"symbol without quote", "chart:\n  symbol: XRPUSDT\n"},
		{"ema not below window", "chart:\n  window: 20\n  ema_period: 20\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestResolveActiveSourcePrefersNamedEnabled(t *testing.T) {
	body := `market:
  active_source: okx
  sources:
    - name: binance
      enabled: true
    - name: okx
      enabled: true
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	src := cfg.Market.ResolveActiveSource()
	assert.Equal(t, "okx", src.Name)
	assert.Equal(t, "https://www.okx.com", src.RESTBaseURL)
}

func TestLoadRejectsUnknownActiveSource(t *testing.T) {
	body := `market:
  active_source: kraken
  sources:
    - name: binance
      enabled: true
`
	_, err := Load(writeConfig(t, body))
	assert.Error(t, err)
}

func TestIsValidInterval(t *testing.T) {
	assert.True(t, IsValidInterval("1m"))
	assert.True(t, IsValidInterval("15m"))
	assert.True(t, IsValidInterval("4h"))
	assert.False(t, IsValidInterval(""))
	assert.False(t, IsValidInterval("1s"))
	assert.False(t, IsValidInterval("h1"))
}
