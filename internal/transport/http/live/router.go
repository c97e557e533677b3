package livehttp

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
	"github.com/farzanaesha/crypto-analysis/internal/store"
)

// Router wires the snapshot store and refresh hub into HTTP routes.
type Router struct {
	Store *store.SnapshotStore
	Hub   *Hub
	Chart appcfg.ChartConfig
}

func NewRouter(st *store.SnapshotStore, hub *Hub, chart appcfg.ChartConfig) *Router {
	return &Router{Store: st, Hub: hub, Chart: chart}
}

func (r *Router) Register(engine *gin.Engine) {
	if engine == nil {
		return
	}
	engine.GET("/", r.handleIndex)
	engine.GET("/chart", r.handleChart)
	engine.GET("/snapshot.png", r.handleSnapshotPNG)
	engine.GET("/ws", r.handleWS)
	engine.GET("/healthz", r.handleHealthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/series", r.handleSeries)
}
