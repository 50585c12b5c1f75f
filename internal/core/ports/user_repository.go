package ports

import (
	"context"
	"time"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// UserRepository is the credential store. Emails passed in are expected to be
// normalized with domain.NormalizeEmail.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create returns domain.ErrDuplicate when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
