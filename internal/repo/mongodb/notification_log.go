package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portalbase/portal-api/internal/models"
)

type NotificationLogRepository interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	MarkSent(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) error
}

type notificationLogRepo struct {
	collection *mongo.Collection
}

func NewNotificationLogRepository(db *DB) NotificationLogRepository {
	return &notificationLogRepo{
		collection: db.Database.Collection("notification_log"),
	}
}

func (r *notificationLogRepo) Create(ctx context.Context, entry *models.NotificationLog) error {
	entry.ID = primitive.NewObjectID()
	if entry.Status == "" {
		entry.Status = models.NotificationPending
	}
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}
	return nil
}

func (r *notificationLogRepo) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	return r.setStatus(ctx, id, bson.M{
		"status":       models.NotificationSent,
		"delivered_at": now,
		"updated_at":   now,
	})
}

func (r *notificationLogRepo) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) error {
	return r.setStatus(ctx, id, bson.M{
		"status":     models.NotificationFailed,
		"error":      reason,
		"updated_at": time.Now(),
	})
}

func (r *notificationLogRepo) setStatus(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update notification log: %w", err)
	}
	return nil
}
