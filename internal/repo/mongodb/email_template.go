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

type EmailTemplateRepository interface {
	// GetForTenant resolves a template by type code for a tenant,
	// preferring the tenant's own row over the system default.
	GetForTenant(ctx context.Context, tenantID primitive.ObjectID, templateID int) (*models.EmailTemplate, error)
	GetDefault(ctx context.Context, templateID int) (*models.EmailTemplate, error)
	Upsert(ctx context.Context, tmpl *models.EmailTemplate) error
}

type emailTemplateRepo struct {
	collection *mongo.Collection
}

func NewEmailTemplateRepository(db *DB) EmailTemplateRepository {
	return &emailTemplateRepo{
		collection: db.Database.Collection("email_template"),
	}
}

func (r *emailTemplateRepo) GetForTenant(ctx context.Context, tenantID primitive.ObjectID, templateID int) (*models.EmailTemplate, error) {
	if !tenantID.IsZero() {
		tmpl, err := r.findOne(ctx, bson.M{"tenant_id": tenantID, "template_id": templateID, "is_active": true})
		if err == nil {
			return tmpl, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	return r.GetDefault(ctx, templateID)
}

func (r *emailTemplateRepo) GetDefault(ctx context.Context, templateID int) (*models.EmailTemplate, error) {
	return r.findOne(ctx, bson.M{
		"template_id": templateID,
		"is_default":  true,
		"is_active":   true,
	})
}

func (r *emailTemplateRepo) findOne(ctx context.Context, filter bson.M) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	err := r.collection.FindOne(ctx, filter).Decode(&tmpl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("email template: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get email template: %w", err)
	}
	return &tmpl, nil
}

func (r *emailTemplateRepo) Upsert(ctx context.Context, tmpl *models.EmailTemplate) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       tmpl.Name,
			"subject":    tmpl.Subject,
			"body":       tmpl.Body,
			"is_active":  tmpl.IsActive,
			"is_default": tmpl.IsDefault,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}

	filter := bson.M{"tenant_id": tmpl.TenantID, "template_id": tmpl.TemplateID}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert email template: %w", err)
	}
	return nil
}
