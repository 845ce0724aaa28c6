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

type TenantClientMappingRepository interface {
	Create(ctx context.Context, mapping *models.TenantClientMapping) error
	ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.TenantClientMapping, error)
	// RepointTenant moves every mapping for fromTenant onto toTenant.
	RepointTenant(ctx context.Context, fromTenant, toTenant primitive.ObjectID) (int64, error)
	RepointClient(ctx context.Context, fromClient, toClient primitive.ObjectID) (int64, error)
}

type tenantClientMappingRepo struct {
	collection *mongo.Collection
}

func NewTenantClientMappingRepository(db *DB) TenantClientMappingRepository {
	return &tenantClientMappingRepo{
		collection: db.Database.Collection("tenant_client_mapping"),
	}
}

func (r *tenantClientMappingRepo) Create(ctx context.Context, mapping *models.TenantClientMapping) error {
	mapping.ID = primitive.NewObjectID()
	mapping.CreatedAt = time.Now()
	mapping.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, mapping)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("tenant-client mapping: %w", models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create tenant-client mapping: %w", err)
	}
	return nil
}

func (r *tenantClientMappingRepo) ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.TenantClientMapping, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"tenant_id": tenantID})
	if err != nil {
		return nil, fmt.Errorf("list tenant-client mappings: %w", err)
	}
	defer cursor.Close(ctx)

	var mappings []*models.TenantClientMapping
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, fmt.Errorf("decode tenant-client mappings: %w", err)
	}
	return mappings, nil
}

func (r *tenantClientMappingRepo) RepointTenant(ctx context.Context, fromTenant, toTenant primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"tenant_id": fromTenant},
		bson.M{"$set": bson.M{"tenant_id": toTenant, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("repoint tenant mappings: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *tenantClientMappingRepo) RepointClient(ctx context.Context, fromClient, toClient primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"client_id": fromClient},
		bson.M{"$set": bson.M{"client_id": toClient, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("repoint client mappings: %w", err)
	}
	return result.ModifiedCount, nil
}
