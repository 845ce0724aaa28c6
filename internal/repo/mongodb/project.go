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

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.Project, error)
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Project, error)
	RepointTenant(ctx context.Context, fromTenant, toTenant primitive.ObjectID) (int64, error)
	RepointClient(ctx context.Context, fromClient, toClient primitive.ObjectID) (int64, error)
}

type projectRepo struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *DB) ProjectRepository {
	return &projectRepo{
		collection: db.Database.Collection("project"),
	}
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	project.ID = primitive.NewObjectID()
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepo) ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.Project, error) {
	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *projectRepo) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Project, error) {
	return r.list(ctx, bson.M{"client_id": clientID})
}

func (r *projectRepo) list(ctx context.Context, filter bson.M) ([]*models.Project, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepo) RepointTenant(ctx context.Context, fromTenant, toTenant primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"tenant_id": fromTenant},
		bson.M{"$set": bson.M{"tenant_id": toTenant, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("repoint project tenants: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *projectRepo) RepointClient(ctx context.Context, fromClient, toClient primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"client_id": fromClient},
		bson.M{"$set": bson.M{"client_id": toClient, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("repoint project clients: %w", err)
	}
	return result.ModifiedCount, nil
}
