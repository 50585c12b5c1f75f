package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

const (
	// DefaultTokenTTL is the lifetime of an issued token.
	DefaultTokenTTL = 2 * time.Hour
	// MinSecretLength is the shortest HMAC key accepted, in bytes.
	MinSecretLength = 32

	tokenIssuer = "sigcpef"
)

var (
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid covers bad signatures, malformed payloads and expired
	// tokens alike; callers cannot tell them apart.
	ErrTokenInvalid = errors.New("token invalid")
	ErrWeakSecret   = errors.New("jwt secret is empty, a placeholder, or too short")
)

// weakSecrets are well-known placeholder values that must never sign tokens.
var weakSecrets = map[string]struct{}{
	"changeme":    {},
	"secret":      {},
	"jwt_secret":  {},
	"supersecret": {},
	"your-secret": {},
}

type tokenClaims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	Email  string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens. Tokens are stateless:
// there is no revocation list, a leaked token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService fails closed: it refuses to build a service around an
// empty, placeholder, or short secret.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if err := CheckSecret(secret); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// CheckSecret reports ErrWeakSecret for secrets that must not sign tokens.
func CheckSecret(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if _, weak := weakSecrets[strings.ToLower(trimmed)]; weak {
		return ErrWeakSecret
	}
	if len(trimmed) < MinSecretLength {
		return ErrWeakSecret
	}
	return nil
}

// TTL returns the lifetime applied to issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token carrying the user's id, role and email.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if user == nil || user.ID == "" || !user.Role.Valid() {
		return "", fmt.Errorf("issue token: %w", ErrTokenInvalid)
	}

	now := s.now()
	claims := tokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// principal the token was issued for. Segments must be canonical base64url,
// so a signature that differs in any character is rejected.
func (s *TokenService) Verify(token string) (domain.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Principal{}, ErrTokenMissing
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, ErrTokenInvalid
	}
	if claims.UserID == "" || claims.UserID != claims.Subject || !claims.Role.Valid() {
		return domain.Principal{}, ErrTokenInvalid
	}

	return domain.Principal{UserID: claims.UserID, Role: claims.Role, Email: claims.Email}, nil
}
