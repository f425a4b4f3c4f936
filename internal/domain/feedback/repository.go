package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Repository defines the persistence port for feedback records
type Repository interface {
	shared.Repository[Feedback]
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Feedback, error)
	FindPending(ctx context.Context) ([]Feedback, error)
}
