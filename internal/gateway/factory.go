// Package gateway selects the configured market data source.
package gateway

import (
	"fmt"
	"strings"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
	"github.com/farzanaesha/crypto-analysis/internal/gateway/binance"
	"github.com/farzanaesha/crypto-analysis/internal/gateway/gate"
	"github.com/farzanaesha/crypto-analysis/internal/gateway/okx"
	"github.com/farzanaesha/crypto-analysis/internal/market"
)

func NewSourceFromConfig(cfg *appcfg.Config) (market.Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	active := cfg.Market.ResolveActiveSource()
	name := strings.ToLower(active.Name)
	switch name {
	case "", "binance", "binance-spot":
		return binance.New(binance.Config{
			RESTBaseURL:  active.RESTBaseURL,
			HTTPTimeout:  active.Timeout(),
			ProxyEnabled: active.Proxy.Enabled,
			RESTProxyURL: active.Proxy.RESTURL,
		})
	case "okx":
		return okx.New(okx.Config{
			RESTBaseURL:  active.RESTBaseURL,
			HTTPTimeout:  active.Timeout(),
			ProxyEnabled: active.Proxy.Enabled,
			RESTProxyURL: active.Proxy.RESTURL,
		})
	case "gate", "gateio":
		return gate.New(gate.Config{
			RESTBaseURL:  active.RESTBaseURL,
			HTTPTimeout:  active.Timeout(),
			ProxyEnabled: active.Proxy.Enabled,
			RESTProxyURL: active.Proxy.RESTURL,
		})
	default:
		return nil, fmt.Errorf("unsupported market source: %s", active.Name)
	}
}
