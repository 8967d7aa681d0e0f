package ports

import (
	"context"

	"github.com/primetrade/taskhub/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Lookups return
// domain.ErrTaskNotFound on a miss; FindByIDAndOwner misses both when the task
// does not exist and when it belongs to someone else, so callers cannot tell
// the two apart.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Task, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	FindAll(ctx context.Context) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
