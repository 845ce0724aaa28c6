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

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Tenant, error)
}

type tenantRepo struct {
	collection *mongo.Collection
}

func NewTenantRepository(db *DB) TenantRepository {
	return &tenantRepo{
		collection: db.Database.Collection("tenant"),
	}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	tenant.ID = primitive.NewObjectID()
	tenant.IsActive = true
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, tenant)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("tenant: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Tenant, error) {
	fields["updated_at"] = time.Now()

	var tenant models.Tenant
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("tenant: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	return &tenant, nil
}
