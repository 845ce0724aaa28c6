package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portalbase/portal-api/internal/models"
)

type UserProfileMappingRepository interface {
	// Create inserts a mapping row. A duplicate (userId, masterId) pair
	// comes back as ErrConflict; callers treat it as already linked.
	Create(ctx context.Context, mapping *models.UserTenantClientMapping) error
	Get(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) (*models.UserTenantClientMapping, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.UserTenantClientMapping, error)
	Delete(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) error
}

type userProfileMappingRepo struct {
	collection *mongo.Collection
}

func NewUserProfileMappingRepository(db *DB) UserProfileMappingRepository {
	return &userProfileMappingRepo{
		collection: db.Database.Collection("user_tenant_client_mapping"),
	}
}

func (r *userProfileMappingRepo) Create(ctx context.Context, mapping *models.UserTenantClientMapping) error {
	mapping.ID = primitive.NewObjectID()
	mapping.CreatedAt = time.Now()
	mapping.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, mapping)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("user-profile mapping: %w", models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user-profile mapping: %w", err)
	}
	return nil
}

func (r *userProfileMappingRepo) Get(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) (*models.UserTenantClientMapping, error) {
	filter := bson.M{"user_id": userID, "master_id": masterID, "role": role}

	var mapping models.UserTenantClientMapping
	err := r.collection.FindOne(ctx, filter).Decode(&mapping)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user-profile mapping: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user-profile mapping: %w", err)
	}
	return &mapping, nil
}

func (r *userProfileMappingRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.UserTenantClientMapping, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list user-profile mappings: %w", err)
	}
	defer cursor.Close(ctx)

	var mappings []*models.UserTenantClientMapping
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, fmt.Errorf("decode user-profile mappings: %w", err)
	}
	return mappings, nil
}

func (r *userProfileMappingRepo) Delete(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"user_id":   userID,
		"master_id": masterID,
		"role":      role,
	})
	if err != nil {
		return fmt.Errorf("delete user-profile mapping: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user-profile mapping: %w", models.ErrNotFound)
	}
	return nil
}
