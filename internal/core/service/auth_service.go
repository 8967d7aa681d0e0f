package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/primetrade/taskhub/internal/core/domain"
	"github.com/primetrade/taskhub/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	audit   ports.ActivityRecorder
	logger  zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// WithLoginLimiter enables per-email throttling of failed logins.
func (s *AuthService) WithLoginLimiter(l ports.LoginLimiter) *AuthService {
	s.limiter = l
	return s
}

// WithAuditRecorder enables audit-trail events for auth actions.
func (s *AuthService) WithAuditRecorder(r ports.ActivityRecorder) *AuthService {
	s.audit = r
	return s
}

// Register creates a new user with role "user", persists it and returns a
// token for the fresh identity. The exists check is a fast path only; the
// store's unique email index is the authoritative guard, so a concurrent
// duplicate surfaces as domain.ErrEmailExists from Create.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if exists {
		return "", nil, domain.ErrEmailExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.Email, created.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	s.record(domain.ActivityEvent{
		Action:     domain.ActionUserRegistered,
		ActorID:    created.ID,
		ActorEmail: created.Email,
	})

	return token, created, nil
}

// Login verifies credentials and issues a token carrying the stored role.
// Unknown email and wrong password are indistinguishable to the caller: both
// return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	s.record(domain.ActivityEvent{
		Action:     domain.ActionUserLogin,
		ActorID:    user.ID,
		ActorEmail: user.Email,
	})

	return token, user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter record failed")
		}
	}
	s.record(domain.ActivityEvent{
		Action:     domain.ActionLoginFailed,
		ActorEmail: email,
	})
}

func (s *AuthService) record(event domain.ActivityEvent) {
	if s.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	s.audit.Record(event)
}
