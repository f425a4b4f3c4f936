package order

import (
	"github.com/shopspring/decimal"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Order event types
const (
	EventOrderSettled = "order.settled"
)

// OrderSettledEvent is raised when the settlement sequence persists an order
type OrderSettledEvent struct {
	shared.BaseDomainEvent
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
	PaymentRef string          `json:"payment_ref"`
}

// NewOrderSettledEvent creates an OrderSettledEvent
func NewOrderSettledEvent(o *Order) *OrderSettledEvent {
	return &OrderSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderSettled, "Order", o.ID),
		Total:           o.Total,
		ItemCount:       o.ItemCount(),
		PaymentRef:      o.PaymentRef,
	}
}
