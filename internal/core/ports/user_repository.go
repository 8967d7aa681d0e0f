package ports

import (
	"context"

	"github.com/primetrade/taskhub/internal/core/domain"
)

// UserRepository defines the interface for user persistence. The store is the
// authoritative guard for email uniqueness; Create returns
// domain.ErrEmailExists when the constraint is violated.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
