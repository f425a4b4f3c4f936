package handler

import (
	"github.com/gin-gonic/gin"

	chatapp "github.com/smartstore/backend/internal/application/chat"
	"github.com/smartstore/backend/internal/interfaces/http/middleware"
)

// ChatHandler handles the support chatbot endpoints
type ChatHandler struct {
	BaseHandler
	chatService *chatapp.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chatapp.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Welcome returns the bot's opening message
func (h *ChatHandler) Welcome(c *gin.Context) {
	h.Success(c, h.chatService.Welcome())
}

// Message classifies a user message and returns the bot's reply
func (h *ChatHandler) Message(c *gin.Context) {
	var req chatapp.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.Success(c, h.chatService.Respond(c.Request.Context(), middleware.UserID(c), req))
}
