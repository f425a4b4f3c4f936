package handler

import (
	"github.com/gin-gonic/gin"

	feedbackapp "github.com/smartstore/backend/internal/application/feedback"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// FeedbackHandler handles feedback and enquiry endpoints
type FeedbackHandler struct {
	BaseHandler
	feedbackService *feedbackapp.Service
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedbackService *feedbackapp.Service) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Submit records a feedback or enquiry from the caller
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req feedbackapp.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.feedbackService.Submit(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListMine returns the caller's submitted feedback
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	results, err := h.feedbackService.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}

// ListPending returns unanswered feedback, oldest first. Admin only.
func (h *FeedbackHandler) ListPending(c *gin.Context) {
	results, err := h.feedbackService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}

// Reply records an admin response to a feedback entry
func (h *FeedbackHandler) Reply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req feedbackapp.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.feedbackService.Reply(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
