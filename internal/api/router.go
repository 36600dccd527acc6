package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shiv159/TradeWiseAi/internal/service"
)

// NewRouter builds the gin engine with logging, recovery and the analysis routes.
func NewRouter(orchestrator *service.Orchestrator) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(orchestrator)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/current-price", h.CurrentPrice)
		v1.GET("/historical", h.Historical)
		v1.GET("/analysis", h.Analysis)
		v1.GET("/analysis/patterns", h.Patterns)
	}
	return r
}

// requestLogger emits one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
