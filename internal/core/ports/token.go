package ports

import "time"

// TokenClaims is the verified payload of a bearer token.
type TokenClaims struct {
	Subject   string // user email
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Verify fails with domain.ErrTokenExpired when only the expiry is violated
// and domain.ErrInvalidToken for any other defect.
type TokenService interface {
	Issue(subject, role string) (string, error)
	Verify(token string) (*TokenClaims, error)
}

// PasswordHasher provides one-way salted credential hashing. Verify never
// fails on a malformed hash; it reports false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
