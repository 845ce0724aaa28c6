package mongodb

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and TTL indexes the identity
// subsystem relies on. Safe to run on every start; mongo treats
// re-creation of an identical index as a no-op.
func EnsureIndexes(ctx context.Context, db *DB) error {
	specs := map[string][]mongo.IndexModel{
		"user": {
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetCollation(&options.Collation{Locale: "en", Strength: 2}),
			},
		},
		"otp": {
			{
				Keys:    bson.D{{Key: "identifier", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
		"tenant_client_mapping": {
			{
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "client_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"user_tenant_client_mapping": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "master_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}},
			},
		},
		"project": {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "client_id", Value: 1}, {Key: "is_active", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		"email_template": {
			{
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "template_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"notification_log": {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		"client": {
			{Keys: bson.D{{Key: "invitation_token", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}

	for coll, models := range specs {
		if _, err := db.Database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", coll, err)
		}
		log.Debugw(ctx, "indexes ensured", "collection", coll, "count", len(models))
	}
	return nil
}
