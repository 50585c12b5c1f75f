package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sigcpef/personnel-api/internal/api/middleware"
	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. Its
// absence means the route was mounted without the middleware; the request is
// rejected as unauthenticated rather than served anonymously.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.UserID == "" {
		return domain.Principal{}, domain.ErrAuthMissing
	}
	return p, nil
}

// bind decodes the request body; malformed payloads become validation errors.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domain.NewValidationError("Payload invalido.")
	}
	return c.Validate(dst)
}
