package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/primetrade/taskhub/internal/core/domain"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
	// skipExistsCheck makes ExistsByEmail report false regardless of state,
	// simulating a registration racing past the fast-path check.
	skipExistsCheck bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.skipExistsCheck {
		return false, nil
	}
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailExists
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = string(rune('0' + r.nextID))
	r.byEmail[created.Email] = cloneUser(created)
	return created, nil
}

type recordedEvents struct {
	events []domain.ActivityEvent
}

func (r *recordedEvents) Record(event domain.ActivityEvent) {
	r.events = append(r.events, event)
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(
		repo,
		NewPasswordHasherWithCost(bcrypt.MinCost),
		NewTokenService("secret", time.Hour),
		zerolog.Nop(),
	)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	token, user, err := svc.Register(context.Background(), "Alice", "alice@x.com", "pw123secret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("new users must get the user role, got %s", user.Role)
	}
	if user.PasswordHash == "pw123secret" {
		t.Fatalf("expected password to be hashed")
	}

	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != "alice@x.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Bob", "bob@x.com", "pw123secret"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Bobby", "bob@x.com", "otherpass123"); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_StoreConstraintWins(t *testing.T) {
	// Simulates the concurrent-registration race: the exists fast path misses
	// but the store's unique index rejects the insert.
	repo := newStubUserRepo()
	repo.skipExistsCheck = true
	svc := newTestAuthService(repo)

	repo.byEmail["carol@x.com"] = &domain.User{ID: "9", Email: "carol@x.com"}

	_, _, err := svc.Register(context.Background(), "Carol", "carol@x.com", "pw123secret")
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Carol", "carol@x.com", "s3cretpass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// Promote to admin to check the token carries the stored role.
	repo.byEmail["carol@x.com"].Role = domain.RoleAdmin

	token, user, err := svc.Login(context.Background(), "carol@x.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role in token, got %s", claims.Role)
	}
}

func TestAuthService_Login_FailuresIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Dave", "dave@x.com", "goodpass123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "dave@x.com", "badpass")
	_, _, unknownEmail := svc.Login(context.Background(), "ghost@x.com", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPass.Error() != unknownEmail.Error() {
		t.Fatalf("failure modes must be indistinguishable: %q vs %q", wrongPass, unknownEmail)
	}
}

type stubLimiter struct {
	allowed  bool
	failures int
	resets   int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) { return l.allowed, nil }
func (l *stubLimiter) RecordFailure(_ context.Context, _ string) error {
	l.failures++
	return nil
}
func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: false}
	svc := newTestAuthService(repo).WithLoginLimiter(limiter)

	if _, _, err := svc.Login(context.Background(), "dave@x.com", "whatever"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterBookkeeping(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: true}
	svc := newTestAuthService(repo).WithLoginLimiter(limiter)

	if _, _, err := svc.Register(context.Background(), "Eve", "eve@x.com", "goodpass123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _ = svc.Login(context.Background(), "eve@x.com", "badpass")
	if limiter.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", limiter.failures)
	}

	if _, _, err := svc.Login(context.Background(), "eve@x.com", "goodpass123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected counter reset after success, got %d", limiter.resets)
	}
}

func TestAuthService_AuditEvents(t *testing.T) {
	repo := newStubUserRepo()
	audit := &recordedEvents{}
	svc := newTestAuthService(repo).WithAuditRecorder(audit)

	if _, _, err := svc.Register(context.Background(), "Fred", "fred@x.com", "pw123secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, _, _ = svc.Login(context.Background(), "fred@x.com", "badpass")
	if _, _, err := svc.Login(context.Background(), "fred@x.com", "pw123secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	want := []string{domain.ActionUserRegistered, domain.ActionLoginFailed, domain.ActionUserLogin}
	if len(audit.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(audit.events))
	}
	for i, action := range want {
		if audit.events[i].Action != action {
			t.Fatalf("event %d: expected %s, got %s", i, action, audit.events[i].Action)
		}
	}
}
