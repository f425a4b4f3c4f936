package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Repository defines the persistence port for orders
type Repository interface {
	shared.Repository[Order]
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindCompletedByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
}
