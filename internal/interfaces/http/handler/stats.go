package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/smartstore/backend/internal/application/report"
)

// StatsHandler handles the admin dashboard summary endpoint
type StatsHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(reportService *reportapp.Service) *StatsHandler {
	return &StatsHandler{reportService: reportService}
}

// Stats returns store-wide counts, revenue and the low stock list
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.Stats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}
