package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the cart store boundary. Carts are scoped per user and
// replaced wholesale; the backing may be relational (gorm) or redis.
type Repository interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	ReplaceCart(ctx context.Context, userID uuid.UUID, entries []Entry) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
