package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// LoginAuditRepository implements ports.LoginAuditRepository using MongoDB.
type LoginAuditRepository struct {
	db DatabaseProvider
}

func NewLoginAuditRepository(db DatabaseProvider) *LoginAuditRepository {
	return &LoginAuditRepository{db: db}
}

// InsertLogin appends a login event to the login_audit collection.
func (r *LoginAuditRepository) InsertLogin(ctx context.Context, ev domain.LoginEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	db, err := r.db.Database(ctx)
	if err != nil {
		return err
	}

	doc := bson.M{
		"user_id":     ev.UserID,
		"email":       ev.Email,
		"client_ip":   ev.ClientIP,
		"at":          ev.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if _, err := db.Collection(loginAuditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login audit: %w", err)
	}
	return nil
}
