package service

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/pkg/metrics"
)

// Guard resolves the Authorization header of a request into a principal and
// applies domain.IsAuthorized. Every step either advances the request or
// rejects it for good: there is no retry and no partial authorization.
type Guard struct {
	tokens ports.TokenVerifier
	log    zerolog.Logger
}

func NewGuard(tokens ports.TokenVerifier, log zerolog.Logger) *Guard {
	return &Guard{tokens: tokens, log: log}
}

// Authorize returns the caller's principal, or one of domain.ErrAuthMissing,
// domain.ErrAuthInvalid, domain.ErrAuthForbidden.
func (g *Guard) Authorize(authHeader string, allowed ...domain.Role) (domain.Principal, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		metrics.AuthDecisionsTotal.WithLabelValues("missing").Inc()
		return domain.Principal{}, domain.ErrAuthMissing
	}

	p, err := g.tokens.Verify(token)
	if err != nil {
		metrics.AuthDecisionsTotal.WithLabelValues("invalid").Inc()
		return domain.Principal{}, domain.ErrAuthInvalid
	}

	if !domain.IsAuthorized(p.Role, allowed) {
		metrics.AuthDecisionsTotal.WithLabelValues("forbidden").Inc()
		g.log.Debug().
			Str("user_id", p.UserID).
			Str("role", string(p.Role)).
			Interface("allowed", allowed).
			Msg("role not allowed")
		return domain.Principal{}, domain.ErrAuthForbidden
	}

	metrics.AuthDecisionsTotal.WithLabelValues("allowed").Inc()
	return p, nil
}

// bearerToken extracts <token> from "Bearer <token>". The scheme is matched
// case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
