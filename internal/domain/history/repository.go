package history

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the append-only history store boundary
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context) ([]Entry, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
}
