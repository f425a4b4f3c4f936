package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartstore/backend/internal/domain/shared"
)

// LowStockThreshold is the stock level below which a product is flagged
// on the admin dashboard.
const LowStockThreshold = 10

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID  *uuid.UUID      `gorm:"type:uuid;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:text"`
	Image       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		Stock:             stock,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, image string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Image = image
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory sets the product category reference
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
}

// SetSupplier sets the product supplier reference
func (p *Product) SetSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
	p.UpdatedAt = time.Now()
}

// SetPrice sets the unit price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price
	p.UpdatedAt = time.Now()

	return nil
}

// Restock increases the stock by an administrative restock quantity
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	p.applyStockDelta(quantity)

	return nil
}

// SetStock replaces the stock count (administrative edit)
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	delta := stock - p.Stock
	p.applyStockDelta(delta)

	return nil
}

// AdjustStock applies a signed delta to the stock count.
// Settlement decrements are applied as-is: if another checkout depleted the
// stock between validation and settlement the count can go negative.
// Last-write-wins, no coordination across sessions.
func (p *Product) AdjustStock(delta int) {
	p.applyStockDelta(delta)
}

func (p *Product) applyStockDelta(delta int) {
	old := p.Stock
	p.Stock += delta
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, old, p.Stock))
}

// IsLowStock returns true if the stock is below the dashboard alert threshold
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// HasStock returns true if at least quantity units are available
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// Subtotal returns price multiplied by the given quantity
func (p *Product) Subtotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
