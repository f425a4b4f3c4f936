package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/shared"
)

// ProductRepository defines the persistence port for products
type ProductRepository interface {
	shared.Repository[Product]
	FindByName(ctx context.Context, name string) (*Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]Product, error)
	// AdjustStock applies a signed delta atomically and returns the updated
	// product. The delta is applied as-is; stock may go negative.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*Product, error)
}

// CategoryRepository defines the persistence port for categories
type CategoryRepository interface {
	shared.Repository[Category]
	FindByName(ctx context.Context, name string) (*Category, error)
}

// SupplierRepository defines the persistence port for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]
}
