package catalog

import (
	"github.com/smartstore/backend/internal/domain/shared"
)

// Product event types
const (
	EventProductCreated       = "catalog.product.created"
	EventProductUpdated       = "catalog.product.updated"
	EventProductStockAdjusted = "catalog.product.stock_adjusted"
)

// ProductCreatedEvent is raised when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductCreated, "Product", p.ID),
		Name:            p.Name,
	}
}

// ProductUpdatedEvent is raised when a product's basic info changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductUpdated, "Product", p.ID),
		Name:            p.Name,
	}
}

// ProductStockAdjustedEvent is raised whenever the stock count changes
type ProductStockAdjustedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	OldStock int    `json:"old_stock"`
	NewStock int    `json:"new_stock"`
}

// NewProductStockAdjustedEvent creates a ProductStockAdjustedEvent
func NewProductStockAdjustedEvent(p *Product, oldStock, newStock int) *ProductStockAdjustedEvent {
	return &ProductStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductStockAdjusted, "Product", p.ID),
		Name:            p.Name,
		OldStock:        oldStock,
		NewStock:        newStock,
	}
}
