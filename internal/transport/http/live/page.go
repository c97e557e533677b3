package livehttp

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed live.html
var livePage []byte

func (r *Router) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", livePage)
}
