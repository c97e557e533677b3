package okx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/farzanaesha/crypto-analysis/internal/market"
	symbolpkg "github.com/farzanaesha/crypto-analysis/internal/pkg/symbol"
	"github.com/farzanaesha/crypto-analysis/internal/scheduler"
)

const (
	candlesPath = "/api/v5/market/candles"
	maxLimit    = 300
)

// Source implements market.Source on the OKX v5 market candles endpoint.
//
// OKX returns rows newest-first and includes the still-forming candle with
// confirm "0"; FetchRecent keeps only confirmed rows and reverses them to
// chronological order, so no close-time sanitizing is needed afterwards.
type Source struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) (*Source, error) {
	final := cfg.withDefaults()
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyEnabled && final.RESTProxyURL != "" {
		proxyURL, err := url.Parse(final.RESTProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REST proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	return &Source{
		cfg:        final,
		httpClient: httpClient,
	}, nil
}

func (s *Source) Name() string { return "okx" }

func (s *Source) FetchRecent(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	normalized := symbolpkg.Normalize(symbol)
	if normalized == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	instID := symbolpkg.OKX.ToExchange(normalized)

	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}

	// Request one extra row since the newest row is usually unconfirmed.
	body, err := s.getCandles(ctx, instID, okxBar(interval), limit+1)
	if err != nil {
		return nil, fmt.Errorf("%w: okx candles %s %s: %v", market.ErrUnavailable, instID, interval, err)
	}

	if code := gjson.GetBytes(body, "code").String(); code != "0" {
		msg := gjson.GetBytes(body, "msg").String()
		return nil, fmt.Errorf("%w: okx api error %s: %s", market.ErrUnavailable, code, msg)
	}

	periodMs := int64(0)
	if dur, ok := scheduler.ParseIntervalDuration(interval); ok {
		periodMs = dur.Milliseconds()
	}

	rows := gjson.GetBytes(body, "data").Array()
	out := make([]market.Candle, 0, len(rows))
	for i, row := range rows {
		fields := row.Array()
		if len(fields) < 9 {
			return nil, fmt.Errorf("%w: okx kline[%d] has %d fields, want 9", market.ErrUnavailable, i, len(fields))
		}
		// confirm "0" marks the candle still forming on the exchange.
		if fields[8].String() != "1" {
			continue
		}
		openTime := fields[0].Int()
		closeTime := openTime
		if periodMs > 0 {
			closeTime = openTime + periodMs - 1
		}
		out = append(out, market.Candle{
			OpenTime:  openTime,
			CloseTime: closeTime,
			Open:      fields[1].Float(),
			High:      fields[2].Float(),
			Low:       fields[3].Float(),
			Close:     fields[4].Float(),
			Volume:    fields[5].Float(),
			Trades:    0,
		})
	}

	// Newest-first on the wire; callers expect chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Source) getCandles(ctx context.Context, instID, bar string, limit int) ([]byte, error) {
	u, err := url.Parse(strings.TrimRight(s.cfg.RESTBaseURL, "/") + candlesPath)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("instId", instID)
	q.Set("bar", bar)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// okxBar converts an interval like "4h" into OKX bar notation, which keeps
// minutes lowercase and uppercases hour and larger units.
func okxBar(interval string) string {
	if len(interval) < 2 {
		return interval
	}
	switch unit := interval[len(interval)-1]; unit {
	case 'h', 'd', 'w':
		return interval[:len(interval)-1] + strings.ToUpper(string(unit))
	default:
		return interval
	}
}
