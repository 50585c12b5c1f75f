package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// Error codes rendered in the envelope. Clients branch on these, never on
// the message text.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeAuthMissing        = "AUTH_MISSING"
	CodeAuthInvalid        = "AUTH_INVALID"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeAuthForbidden      = "AUTH_FORBIDDEN"
	CodeAuthInactive       = "AUTH_INACTIVE"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeDuplicate          = "DUPLICATE"
	CodeRateLimit          = "RATE_LIMIT"
	CodeServerError        = "SERVER_ERROR"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and error code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "code", "message"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, failure(CodeValidation, ve.Msg)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, failure(CodeValidation, "Solicitud invalida.")
	case errors.Is(err, domain.ErrAuthMissing):
		return http.StatusUnauthorized, failure(CodeAuthMissing, "Token invalido o ausente.")
	case errors.Is(err, domain.ErrAuthInvalid):
		return http.StatusUnauthorized, failure(CodeAuthInvalid, "Token invalido o ausente.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, failure(CodeInvalidCredentials, "Credenciales invalidas.")
	case errors.Is(err, domain.ErrAuthForbidden):
		return http.StatusForbidden, failure(CodeAuthForbidden, "No tienes permisos.")
	case errors.Is(err, domain.ErrAuthInactive):
		return http.StatusForbidden, failure(CodeAuthInactive, "Usuario inactivo.")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, failure(CodeNotFound, "Recurso no encontrado.")
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, failure(CodeDuplicate, "Ya existe un registro con ese valor.")
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, failure(CodeRateLimit, "Demasiadas solicitudes, intenta en un minuto.")
	}

	// Echo's own errors (bind failures, 404/405 from the router, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, failure(CodeNotFound, "Ruta no encontrada.")
		case http.StatusMethodNotAllowed:
			return he.Code, failure(CodeMethodNotAllowed, "Metodo no soportado.")
		case http.StatusUnauthorized:
			return he.Code, failure(CodeAuthMissing, "Token invalido o ausente.")
		case http.StatusTooManyRequests:
			return he.Code, failure(CodeRateLimit, "Demasiadas solicitudes, intenta en un minuto.")
		}
		if he.Code >= http.StatusBadRequest && he.Code < http.StatusInternalServerError {
			return http.StatusBadRequest, failure(CodeValidation, "Solicitud invalida.")
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, failure(CodeServerError, "Error interno.")
}

func failure(code, msg string) errorResponse {
	return errorResponse{Success: false, Code: code, Message: msg}
}
