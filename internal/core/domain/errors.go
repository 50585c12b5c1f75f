package domain

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrAuthMissing        = errors.New("authorization token missing")
	ErrAuthInvalid        = errors.New("authorization token invalid")
	ErrAuthForbidden      = errors.New("role not allowed")
	ErrAuthInactive       = errors.New("user inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests")
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("duplicate")
)

// ValidationError carries a client-facing message for malformed input.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
