package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
)

type loginRecorder struct {
	users ports.UserRepository
	audit ports.LoginAuditRepository
	log   zerolog.Logger
}

// NewLoginRecorder returns a LoginRecorder that stamps last_login_at and
// appends to the login audit trail.
func NewLoginRecorder(users ports.UserRepository, audit ports.LoginAuditRepository, log zerolog.Logger) ports.LoginRecorder {
	return &loginRecorder{users: users, audit: audit, log: log}
}

// Record persists a single login event.
func (r *loginRecorder) Record(ctx context.Context, ev domain.LoginEvent) error {
	// 1. last_login_at is what /auth/me and the admin UI show; it must land.
	if err := r.users.TouchLastLogin(ctx, ev.UserID, ev.At); err != nil {
		return fmt.Errorf("record login: touch last login: %w", err)
	}

	// 2. Audit trail (non-fatal on failure).
	if err := r.audit.InsertLogin(ctx, ev); err != nil {
		r.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("failed to insert login audit")
	}

	r.log.Debug().Str("user_id", ev.UserID).Str("client_ip", ev.ClientIP).Msg("login recorded")
	return nil
}
