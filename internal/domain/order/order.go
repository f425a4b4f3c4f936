package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Status represents the fulfilment status of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Line is one line item in an order. Product name and unit price are
// snapshots taken at settlement time; later catalog edits do not affect
// persisted orders.
type Line struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// Subtotal returns unit price multiplied by quantity
func (l *Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order represents a customer order aggregate root
type Order struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Lines         []Line          `gorm:"foreignKey:OrderID;references:ID"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentRef    string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewSettledOrder creates an order the way the settlement sequence does:
// status and payment status are set to completed together, with the
// provider payment id as the payment reference. No partial order states
// are modeled for this flow.
func NewSettledOrder(userID uuid.UUID, lines []Line, paymentRef string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must have at least one line")
	}
	if paymentRef == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_REF", "Payment reference cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Lines:             make([]Line, 0, len(lines)),
		Status:            StatusCompleted,
		PaymentStatus:     PaymentCompleted,
		PaymentRef:        paymentRef,
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Line product ID cannot be empty")
		}
		if line.ProductName == "" {
			return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Line product name cannot be empty")
		}
		if line.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Line unit price cannot be negative")
		}

		line.ID = uuid.New()
		line.OrderID = o.ID
		o.Lines = append(o.Lines, line)
		total = total.Add(line.Subtotal())
	}
	o.Total = total

	o.AddDomainEvent(NewOrderSettledEvent(o))

	return o, nil
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Lines)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Cancel marks the order cancelled (administrative action; settlement
// never produces cancelled orders)
func (o *Order) Cancel() error {
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Order is already cancelled")
	}

	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()

	return nil
}
