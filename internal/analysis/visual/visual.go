// Package visual renders the live candle window as an ECharts page and,
// through headless Chrome, as a PNG snapshot.
package visual

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	talib "github.com/markcheno/go-talib"

	"github.com/farzanaesha/crypto-analysis/internal/market"
)

// ChartInput is everything one chart render needs. Series is expected in
// chronological order with at most one provisional candle at the tail.
type ChartInput struct {
	Symbol    string
	Interval  string
	EMAPeriod int
	Series    []market.Candle
	UpdatedAt time.Time
	Stale     bool
	LastError string
}

const (
	colorBackground    = "#1e1e1e"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorBull          = "#26a69a"
	colorBear          = "#ef5350"
	colorProvisional   = "#fbbf24"
	colorEMA           = "#3b82f6"
	colorStale         = "#f87171"

	chartWidthPx   = 1280
	klineHeightPx  = 620
	volumeHeightPx = 220
)

// BuildChartHTML renders the window into a self-contained HTML page. An
// input with no candles renders the unavailable page instead of an empty
// chart.
func BuildChartHTML(input ChartInput) ([]byte, error) {
	if len(input.Series) == 0 {
		return BuildUnavailableHTML(input), nil
	}

	minPrice, maxPrice := priceBounds(input.Series)
	padding := (maxPrice - minPrice) * 0.05
	if padding <= 0 {
		padding = math.Max(1, math.Abs(maxPrice)*0.01)
	}
	minAxis := round(minPrice-padding, 4)
	maxAxis := round(maxPrice+padding, 4)

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", klineHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTitleOpts(opts.Title{
			Title:         fmt.Sprintf("Live %s Candlestick Chart (%s)", strings.ToUpper(input.Symbol), input.Interval),
			Subtitle:      chartSubtitle(input),
			Left:          "left",
			Top:           "10",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: subtitleColor(input)},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			Min:       minAxis,
			Max:       maxAxis,
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)

	xAxis := buildXAxis(input.Series)
	settled, provisional := splitKlineSeries(input.Series)
	kline.SetXAxis(xAxis)
	kline.AddSeries("Price", settled, charts.WithItemStyleOpts(opts.ItemStyle{
		Color:        colorBull,
		Color0:       colorBear,
		BorderColor:  colorBull,
		BorderColor0: colorBear,
	}))
	kline.AddSeries("Forming", provisional, charts.WithItemStyleOpts(opts.ItemStyle{
		Color:        colorProvisional,
		Color0:       colorProvisional,
		BorderColor:  colorProvisional,
		BorderColor0: colorProvisional,
	}))

	if emaData := buildEMALine(input.Series, input.EMAPeriod); emaData != nil {
		line := charts.NewLine()
		line.SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
		line.SetXAxis(xAxis)
		line.AddSeries(fmt.Sprintf("EMA%d", input.EMAPeriod), emaData,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorEMA, Width: 2}))
		kline.Overlap(line)
	}

	volume := buildVolumeChart(xAxis, input.Series)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(kline, volume)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildUnavailableHTML is the page shown before the first successful refresh
// or when the process has never seen data.
func BuildUnavailableHTML(input ChartInput) []byte {
	reason := strings.TrimSpace(input.LastError)
	if reason == "" {
		reason = "waiting for first refresh"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, unavailablePage,
		html.EscapeString(strings.ToUpper(input.Symbol)),
		html.EscapeString(reason),
	)
	return buf.Bytes()
}

const unavailablePage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="background:#1e1e1e;color:#eceff4;font-family:sans-serif;display:flex;align-items:center;justify-content:center;height:100vh;margin:0">
<div style="text-align:center">
<h1 style="color:#f87171">Data fetch failed</h1>
<p style="color:#9ca3af">%s</p>
</div>
</body>
</html>
`

func chartSubtitle(input ChartInput) string {
	updated := "-"
	if !input.UpdatedAt.IsZero() {
		updated = input.UpdatedAt.UTC().Format("15:04:05 MST")
	}
	if input.Stale {
		return fmt.Sprintf("Data fetch failed, showing last window from %s", updated)
	}
	return fmt.Sprintf("%d candles, updated %s", len(input.Series), updated)
}

func subtitleColor(input ChartInput) string {
	if input.Stale {
		return colorStale
	}
	return colorTextSecondary
}

func buildXAxis(candles []market.Candle) []string {
	x := make([]string, len(candles))
	for i, c := range candles {
		x[i] = c.TimeString()
	}
	return x
}

// splitKlineSeries separates settled candles from the provisional tail so
// the two can carry different item styles. Both slices span the full axis;
// the slots belonging to the other series stay nil.
func splitKlineSeries(candles []market.Candle) (settled, provisional []opts.KlineData) {
	settled = make([]opts.KlineData, len(candles))
	provisional = make([]opts.KlineData, len(candles))
	for i, c := range candles {
		point := opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
		if c.Provisional {
			provisional[i] = point
			settled[i] = opts.KlineData{Value: nil}
		} else {
			settled[i] = point
			provisional[i] = opts.KlineData{Value: nil}
		}
	}
	return settled, provisional
}

// buildEMALine computes the overlay over closes. The lookback prefix stays
// nil so it never drags the price axis to zero. Returns nil when the period
// is off or the window is too short.
func buildEMALine(candles []market.Candle, period int) []opts.LineData {
	if period <= 0 || len(candles) < period {
		return nil
	}
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	ema := talib.Ema(closes, period)
	line := make([]opts.LineData, len(candles))
	for i := range line {
		if i < period-1 || i >= len(ema) || math.IsNaN(ema[i]) {
			line[i] = opts.LineData{Value: nil}
			continue
		}
		line[i] = opts.LineData{Value: round(ema[i], 4)}
	}
	return line
}

func buildVolumeChart(xAxis []string, candles []market.Candle) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", volumeHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{Title: "Volume", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 6,
			AxisLabel:   &opts.AxisLabel{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	vols := make([]opts.BarData, len(candles))
	for i, c := range candles {
		color := colorBear
		if c.Bullish() {
			color = colorBull
		}
		if c.Provisional {
			color = colorProvisional
		}
		vols[i] = opts.BarData{
			Value: c.Volume,
			ItemStyle: &opts.ItemStyle{
				Color:   color,
				Opacity: opts.Float(0.6),
			},
		}
	}
	bar.SetXAxis(xAxis)
	bar.AddSeries("Volume", vols)
	return bar
}

func round(val float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(val)
	}
	scale := math.Pow10(decimals)
	return math.Round(val*scale) / scale
}

func priceBounds(candles []market.Candle) (minVal, maxVal float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	minVal = candles[0].Low
	maxVal = candles[0].High
	for _, c := range candles {
		if c.Low < minVal {
			minVal = c.Low
		}
		if c.High > maxVal {
			maxVal = c.High
		}
	}
	return minVal, maxVal
}
