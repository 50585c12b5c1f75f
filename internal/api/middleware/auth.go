package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/service"
)

// PrincipalKey is the echo.Context key holding the authenticated
// domain.Principal.
const PrincipalKey = "principal"

// Auth resolves the bearer token through the guard and injects the principal
// into context. With no roles any authenticated caller passes; ADMIN passes
// every role set.
func Auth(guard *service.Guard, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := guard.Authorize(c.Request().Header.Get(echo.HeaderAuthorization), roles...)
			if err != nil {
				return err
			}
			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}
