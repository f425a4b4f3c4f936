package handler

import (
	"github.com/gin-gonic/gin"

	historyapp "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// HistoryHandler handles activity log endpoints
type HistoryHandler struct {
	BaseHandler
	historyService *historyapp.Service
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyService *historyapp.Service) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List returns the full activity log, most recent first. Admin only.
func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.historyService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListMine returns the caller's activity entries, most recent first
func (h *HistoryHandler) ListMine(c *gin.Context) {
	entries, err := h.historyService.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}
