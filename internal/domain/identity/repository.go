package identity

import (
	"context"

	"github.com/smartstore/backend/internal/domain/shared"
)

// UserRepository defines the persistence port for users
type UserRepository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByMobile(ctx context.Context, mobile string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
