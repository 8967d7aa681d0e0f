package ports

import (
	"context"

	"github.com/primetrade/taskhub/internal/core/domain"
)

// AuthService orchestrates registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	// Allow reports whether another attempt for email is permitted.
	Allow(ctx context.Context, email string) (bool, error)
	// RecordFailure counts a failed attempt.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, email string) error
}
