package livehttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farzanaesha/crypto-analysis/internal/analysis/visual"
	"github.com/farzanaesha/crypto-analysis/internal/logger"
	"github.com/farzanaesha/crypto-analysis/internal/market"
	"github.com/farzanaesha/crypto-analysis/internal/store"
)

type seriesResponse struct {
	Symbol    string        `json:"symbol"`
	Interval  string        `json:"interval"`
	Sequence  uint64        `json:"sequence"`
	UpdatedAt time.Time     `json:"updated_at"`
	Stale     bool          `json:"stale"`
	LastError string        `json:"last_error,omitempty"`
	Candles   market.Series `json:"candles"`
}

func (r *Router) chartInput(snap store.Snapshot) visual.ChartInput {
	return visual.ChartInput{
		Symbol:    r.Chart.Symbol,
		Interval:  r.Chart.Interval,
		EMAPeriod: r.Chart.EMAPeriod,
		Series:    snap.Series,
		UpdatedAt: snap.UpdatedAt,
		Stale:     snap.Stale(),
		LastError: snap.LastError,
	}
}

func (r *Router) handleChart(c *gin.Context) {
	snap := r.Store.Latest()
	page, err := visual.BuildChartHTML(r.chartInput(snap))
	if err != nil {
		logger.Errorf("[live] chart render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (r *Router) handleSeries(c *gin.Context) {
	snap := r.Store.Latest()
	if !snap.HasData() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "data unavailable",
			"last_error": snap.LastError,
		})
		return
	}
	c.JSON(http.StatusOK, seriesResponse{
		Symbol:    r.Chart.Symbol,
		Interval:  r.Chart.Interval,
		Sequence:  snap.Sequence,
		UpdatedAt: snap.UpdatedAt,
		Stale:     snap.Stale(),
		LastError: snap.LastError,
		Candles:   snap.Series,
	})
}

func (r *Router) handleHealthz(c *gin.Context) {
	snap := r.Store.Latest()
	switch {
	case !snap.HasData():
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "starting",
			"last_error": snap.LastError,
		})
	case snap.Stale():
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "degraded",
			"sequence":   snap.Sequence,
			"updated_at": snap.UpdatedAt,
			"last_error": snap.LastError,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"sequence":   snap.Sequence,
			"updated_at": snap.UpdatedAt,
		})
	}
}

func (r *Router) handleSnapshotPNG(c *gin.Context) {
	snap := r.Store.Latest()
	if !snap.HasData() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return
	}
	png, err := visual.RenderSnapshotPNG(c.Request.Context(), r.chartInput(snap))
	if err != nil {
		logger.Errorf("[live] snapshot render failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot render failed"})
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+snapshotFilename(r.Chart.Symbol)+`"`)
	c.Data(http.StatusOK, "image/png", png)
}

func snapshotFilename(symbol string) string {
	name := strings.ToLower(symbol)
	name = strings.NewReplacer("/", "_", ":", "_", "-", "_").Replace(name)
	if name == "" {
		name = "snapshot"
	}
	return name + ".png"
}
