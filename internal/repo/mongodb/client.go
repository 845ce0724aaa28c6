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

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Client, error)
	// AcceptInvitation clears the invitation token addressed by token
	// and activates the client.
	AcceptInvitation(ctx context.Context, token string) (*models.Client, error)
	TouchActivity(ctx context.Context, id primitive.ObjectID) error
}

type clientRepo struct {
	collection *mongo.Collection
}

func NewClientRepository(db *DB) ClientRepository {
	return &clientRepo{
		collection: db.Database.Collection("client"),
	}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("client: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Client, error) {
	fields["updated_at"] = time.Now()

	var client models.Client
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("client: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) AcceptInvitation(ctx context.Context, token string) (*models.Client, error) {
	update := bson.M{
		"$set":   bson.M{"is_active": true, "updated_at": time.Now()},
		"$unset": bson.M{"invitation_token": ""},
	}

	var client models.Client
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"invitation_token": token},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("invitation: %w", models.ErrInvalidOrExpired)
	}
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) TouchActivity(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_activity_date": now, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("touch client activity: %w", err)
	}
	return nil
}
