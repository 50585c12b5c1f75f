package ports

import (
	"context"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// RegisterInput carries a new account request. Role may be empty.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Login(ctx context.Context, email, password, clientIP string) (string, *domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
}

// PasswordHasher hashes and verifies passwords. Verify never errors: any
// mismatch or malformed hash is reported as false.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, hash string) bool
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier resolves a bearer token back into a principal.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// RateLimiter admits or rejects an attempt for a client key.
type RateLimiter interface {
	Admit(ctx context.Context, key string) (bool, error)
}
