package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartstore/backend/internal/domain/order"
	"github.com/smartstore/backend/internal/domain/payment"
)

// State is the position of one settlement run in its sequence. The run is
// a cooperative sequence within a single session; there is no background
// progression between states.
type State string

const (
	StateIdle            State = "idle"
	StateValidatingStock State = "validating_stock"
	StateAwaitingPayment State = "awaiting_payment"
	StatePersistingOrder State = "persisting_order"
	StateAdjustingStock  State = "adjusting_stock"
	StateCompleted       State = "completed"
)

// Violation is one cart line whose requested quantity exceeds current stock
type Violation struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

// StockError is the user-visible validation failure listing the affected
// product names. No mutation has happened when it is returned.
type StockError struct {
	Violations []Violation
}

// Error implements the error interface
func (e *StockError) Error() string {
	names := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		names = append(names, v.ProductName)
	}
	return "Insufficient stock for: " + strings.Join(names, ", ") + ". Please update quantities."
}

// PaymentError is the user-visible payment failure carrying the adapter's
// reason. No mutation has happened when it is returned.
type PaymentError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *PaymentError) Error() string {
	if e.Reason != "" {
		return "Payment failed: " + e.Reason
	}
	return "Payment was not completed. Please try again."
}

// Unwrap exposes the payment classification for errors.Is
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// Request selects the payment path for one checkout attempt
type Request struct {
	UserID   uuid.UUID
	Provider payment.Provider
}

// Handoff is everything the client needs to complete a begun checkout: the
// run to await, the provider-side id that keys the callback or dismissal,
// and any display payload. It is produced before the settlement suspends.
type Handoff struct {
	CheckoutID      uuid.UUID
	OrderRef        string
	Provider        payment.Provider
	ProviderOrderID string
	Display         string
	State           State
}

// Result is the outcome of a completed settlement
type Result struct {
	Order      *order.Order
	PaymentRef string
	Display    string // provider display payload, when the path needs one
	State      State
}

// formatAmount renders an INR amount for user-facing messages
func formatAmount(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
