package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	employeesCollection  = "funcionarios"
	sanctionsCollection  = "sanciones"
	loginAuditCollection = "login_audit"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// index on users.email is what enforces email uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		},
		employeesCollection: {
			{Keys: bson.D{{Key: "ci", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_ci")},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		sanctionsCollection: {
			{Keys: bson.D{{Key: "funcionario", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		loginAuditCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
