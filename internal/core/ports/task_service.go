package ports

import (
	"context"
	"time"

	"github.com/primetrade/taskhub/internal/core/domain"
)

// TaskInput carries the writable task fields from the transport layer.
type TaskInput struct {
	Title       string
	Description string
	// Status is optional on create (defaults to pending) and on update
	// (empty keeps the current status).
	Status string
}

// TaskView is the task representation returned to callers, enriched with the
// owning user's public fields.
type TaskView struct {
	ID          string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     string
	OwnerName   string
	OwnerEmail  string
}

// TaskService defines use-case operations for tasks. Every call receives the
// authenticated actor explicitly; ownership and role rules are enforced here.
type TaskService interface {
	Create(ctx context.Context, actor *domain.User, in TaskInput) (*TaskView, error)
	List(ctx context.Context, actor *domain.User) ([]*TaskView, error)
	Get(ctx context.Context, actor *domain.User, id string) (*TaskView, error)
	Update(ctx context.Context, actor *domain.User, id string, in TaskInput) (*TaskView, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	// ListByUser is the admin-only view over an arbitrary user's tasks.
	ListByUser(ctx context.Context, userID string) ([]*TaskView, error)
}
