package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/pkg/metrics"
)

// dummyPassword is hashed once and compared against on unknown emails, so a
// miss costs the same bcrypt work as a wrong password.
const dummyPassword = "sigcpef-timing-parity"

// AuthService implements login, registration and account lookups.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	publisher ports.LoginPublisher
	log       zerolog.Logger
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	publisher ports.LoginPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Login verifies credentials and returns a signed token. Unknown emails and
// wrong passwords both yield domain.ErrInvalidCredentials; the inactive check
// only runs once the password matched.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		return "", nil, domain.NewValidationError("Email y password son requeridos.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(ctx, password, s.timingHash())
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		s.log.Info().Str("user_id", user.ID).Msg("login refused for inactive user")
		return "", nil, domain.ErrAuthInactive
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.publisher.Publish(domain.LoginEvent{
		UserID:   user.ID,
		Email:    user.Email,
		ClientIP: clientIP,
		At:       s.now().UTC(),
	})

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return token, user, nil
}

// Register creates an active account. Authorization (ADMIN only) is enforced
// by the route; the role defaults to domain.DefaultRole.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.NewValidationError("name, email y password son obligatorios.")
	}

	role := domain.DefaultRole
	if strings.TrimSpace(in.Role) != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, domain.NewValidationError("role debe ser uno de: RRHH, OPERACIONES, ICAP, ADMIN.")
		}
		role = r
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Me returns the account behind a verified token.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

// SetActive deactivates or reactivates an account. Tokens already issued to a
// deactivated user stay valid until they expire.
func (s *AuthService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.repo.SetActive(ctx, userID, active)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set active: %w", err)
	}
	s.log.Info().Str("user_id", userID).Bool("active", active).Msg("user activation changed")
	return user, nil
}

// UpdateProfile renames an account and/or changes its role. Empty arguments
// leave the field unchanged. A new role only applies to tokens issued after
// the change.
func (s *AuthService) UpdateProfile(ctx context.Context, email, name, role string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	role = strings.TrimSpace(role)
	if email == "" {
		return nil, domain.NewValidationError("email es obligatorio.")
	}
	if name == "" && role == "" {
		return nil, domain.NewValidationError("Nada que actualizar: indica name o role.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if name != "" {
		user.Name = name
	}
	if role != "" {
		r, ok := domain.ParseRole(role)
		if !ok {
			return nil, domain.NewValidationError("role debe ser uno de: RRHH, OPERACIONES, ICAP, ADMIN.")
		}
		user.Role = r
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user profile updated")
	return user, nil
}

// timingHash is computed once, detached from any request so a cancelled
// caller cannot leave it empty.
func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(context.Background(), dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("timing parity hash unavailable")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
