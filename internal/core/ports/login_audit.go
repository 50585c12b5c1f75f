package ports

import (
	"context"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// LoginAuditRepository persists the login_audit trail.
type LoginAuditRepository interface {
	InsertLogin(ctx context.Context, event domain.LoginEvent) error
}

// LoginRecorder processes login events off the request path.
type LoginRecorder interface {
	Record(ctx context.Context, event domain.LoginEvent) error
}

// LoginPublisher hands login events to the background recorder. Publish must
// not block the caller.
type LoginPublisher interface {
	Publish(event domain.LoginEvent)
}
