// Package api exposes the orchestrator over HTTP. Handlers are thin:
// validate the query, call the service, encode the result. All analysis
// results are value types with their own error tags, so every endpoint
// answers 200 with a structured body unless the request itself is invalid.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shiv159/TradeWiseAi/internal/service"
)

// Handler provides the HTTP handlers for the analysis endpoints.
type Handler struct {
	orchestrator *service.Orchestrator
}

// NewHandler constructs a Handler around the orchestrator.
func NewHandler(orchestrator *service.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// CurrentPrice handles GET /api/v1/current-price?symbol=X.
func (h *Handler) CurrentPrice(c *gin.Context) {
	symbol, ok := h.symbol(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.orchestrator.CurrentPrice(c.Request.Context(), symbol))
}

// Historical handles GET /api/v1/historical?symbol=X&days=30.
func (h *Handler) Historical(c *gin.Context) {
	symbol, ok := h.symbol(c)
	if !ok {
		return
	}
	days, ok := h.days(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.orchestrator.HistoricalAnalysis(c.Request.Context(), symbol, days))
}

// Analysis handles GET /api/v1/analysis?symbol=X.
func (h *Handler) Analysis(c *gin.Context) {
	symbol, ok := h.symbol(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.orchestrator.TechnicalSummary(c.Request.Context(), symbol))
}

// Patterns handles GET /api/v1/analysis/patterns?symbol=X&days=30.
func (h *Handler) Patterns(c *gin.Context) {
	symbol, ok := h.symbol(c)
	if !ok {
		return
	}
	days, ok := h.days(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.orchestrator.AdvancedAnalysis(c.Request.Context(), symbol, days))
}

func (h *Handler) symbol(c *gin.Context) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return "", false
	}
	return symbol, true
}

func (h *Handler) days(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return 0, false
	}
	return days, true
}
