package domain

import (
	"strings"
	"time"
)

// User models an operator account of the personnel system.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NormalizeEmail is applied to every email before it is stored or looked up,
// which makes the unique index on users.email case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the identity resolved from a verified bearer token.
type Principal struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	Email  string `json:"email,omitempty"`
}

// LoginEvent is emitted after every successful login.
type LoginEvent struct {
	UserID   string
	Email    string
	ClientIP string
	At       time.Time
}
