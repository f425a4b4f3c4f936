package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartstore/backend/internal/domain/order"
	"github.com/smartstore/backend/internal/domain/shared"
)

// LineResponse represents one order line in API responses
type LineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Lines         []LineResponse  `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentRef    string          `json:"payment_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Service answers order queries for customers and admins
type Service struct {
	orders order.Repository
}

// NewService creates an order query service
func NewService(orders order.Repository) *Service {
	return &Service{orders: orders}
}

// Get returns a single order. Customers may only read their own orders;
// the handler passes requesterID uuid.Nil for admin access.
func (s *Service) Get(ctx context.Context, id, requesterID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requesterID != uuid.Nil && o.UserID != requesterID {
		return nil, shared.ErrForbidden
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListForUser returns a user's orders, most recent first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orders.FindByUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return toResponses(orders), nil
}

// List returns all orders for the admin dashboard
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]OrderResponse, int64, error) {
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(orders), total, nil
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]LineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Lines:         lines,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentRef:    o.PaymentRef,
		CreatedAt:     o.CreatedAt,
	}
}

func toResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
