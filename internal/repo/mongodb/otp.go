package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portalbase/portal-api/internal/models"
)

type OtpRepository interface {
	// Upsert stores code against identifier, replacing any prior
	// unconsumed code for that identifier.
	Upsert(ctx context.Context, identifier, code string, expiresAt time.Time) error
	// Consume deletes the record matching identifier and code if it has
	// not expired. Returns ErrInvalidOrExpired otherwise, so a consumed
	// or superseded code can never verify again.
	Consume(ctx context.Context, identifier, code string) error
}

type otpRepo struct {
	collection *mongo.Collection
}

func NewOtpRepository(db *DB) OtpRepository {
	return &otpRepo{
		collection: db.Database.Collection("otp"),
	}
}

func (r *otpRepo) Upsert(ctx context.Context, identifier, code string, expiresAt time.Time) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"otp":        code,
			"expires_at": expiresAt,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"identifier": identifier,
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"identifier": identifier},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

func (r *otpRepo) Consume(ctx context.Context, identifier, code string) error {
	filter := bson.M{
		"identifier": identifier,
		"otp":        code,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var otp models.Otp
	err := r.collection.FindOneAndDelete(ctx, filter).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("otp: %w", models.ErrInvalidOrExpired)
	}
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}
