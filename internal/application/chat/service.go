package chat

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/chat"
	"github.com/smartstore/backend/internal/domain/order"
)

// MessageRequest represents one chatbot message from a user
type MessageRequest struct {
	Message string `json:"message" binding:"required,min=1,max=1000"`
}

// MessageResponse represents the chatbot's reply
type MessageResponse struct {
	Category string `json:"category"`
	Reply    string `json:"reply"`
}

// Service answers chatbot messages. Classification is keyword-based and
// purchase-aware: the user's most recent completed order feeds the
// feedback and quality rules.
type Service struct {
	orders order.Repository
	logger *zap.Logger
}

// NewService creates a chat service
func NewService(orders order.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, logger: logger}
}

// Welcome returns the greeting shown when the chat widget opens
func (s *Service) Welcome() MessageResponse {
	return MessageResponse{Category: string(chat.CategoryGreeting), Reply: chat.WelcomeMessage}
}

// Respond classifies a message and returns the reply. Purchase context is
// best-effort: if order lookup fails the bot answers without it.
func (s *Service) Respond(ctx context.Context, userID uuid.UUID, req MessageRequest) MessageResponse {
	reply := chat.Classify(req.Message, s.purchaseContext(ctx, userID))
	return MessageResponse{Category: string(reply.Category), Reply: reply.Text}
}

func (s *Service) purchaseContext(ctx context.Context, userID uuid.UUID) chat.Context {
	if userID == uuid.Nil {
		return chat.Context{}
	}
	orders, err := s.orders.FindCompletedByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("purchase context lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return chat.Context{}
	}
	if len(orders) == 0 {
		return chat.Context{}
	}

	// Orders come back most recent first
	recent := orders[0]
	names := make([]string, 0, len(recent.Lines))
	for _, l := range recent.Lines {
		names = append(names, l.ProductName)
	}
	return chat.Context{RecentProductNames: names}
}
