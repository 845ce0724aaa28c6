package usecase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
)

// ProfileResolver loads and creates tenant/client profile documents
// behind the models.Profile abstraction so callers never branch on the
// role themselves.
type ProfileResolver struct {
	tenantRepo mongodb.TenantRepository
	clientRepo mongodb.ClientRepository
}

func NewProfileResolver(tenantRepo mongodb.TenantRepository, clientRepo mongodb.ClientRepository) *ProfileResolver {
	return &ProfileResolver{
		tenantRepo: tenantRepo,
		clientRepo: clientRepo,
	}
}

func (r *ProfileResolver) Load(ctx context.Context, role models.ProfileRole, id primitive.ObjectID) (models.Profile, error) {
	switch role {
	case models.RoleTenant:
		return r.tenantRepo.GetByID(ctx, id)
	case models.RoleClient:
		return r.clientRepo.GetByID(ctx, id)
	default:
		return nil, fmt.Errorf("unknown profile role %q: %w", role, models.ErrBadRequest)
	}
}

// Create makes the underlying profile document for a new identity. For
// tenants the given name becomes the company name.
func (r *ProfileResolver) Create(ctx context.Context, role models.ProfileRole, name, email, phone, imageURL string) (models.Profile, error) {
	switch role {
	case models.RoleTenant:
		tenant := &models.Tenant{
			CompanyName:     name,
			Email:           email,
			Phone:           phone,
			ProfileImageURL: imageURL,
		}
		if err := r.tenantRepo.Create(ctx, tenant); err != nil {
			return nil, err
		}
		return tenant, nil
	case models.RoleClient:
		client := &models.Client{
			Name:            name,
			Email:           email,
			Phone:           phone,
			IsActive:        true,
			ProfileImageURL: imageURL,
		}
		if err := r.clientRepo.Create(ctx, client); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown profile role %q: %w", role, models.ErrBadRequest)
	}
}

// UpdateFields applies a partial update to the profile document. The
// name field maps onto company_name for tenants.
func (r *ProfileResolver) UpdateFields(ctx context.Context, role models.ProfileRole, id primitive.ObjectID, req models.UpdateProfileRequest) (models.Profile, error) {
	fields := bson.M{}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.ProfileImageURL != "" {
		fields["profile_image_url"] = req.ProfileImageURL
	}

	switch role {
	case models.RoleTenant:
		if req.Name != "" {
			fields["company_name"] = req.Name
		}
		return r.tenantRepo.UpdateFields(ctx, id, fields)
	case models.RoleClient:
		if req.Name != "" {
			fields["name"] = req.Name
		}
		return r.clientRepo.UpdateFields(ctx, id, fields)
	default:
		return nil, fmt.Errorf("unknown profile role %q: %w", role, models.ErrBadRequest)
	}
}

// Summary flattens a profile into the get-accounts listing shape.
func Summary(p models.Profile) models.AccountSummary {
	return models.AccountSummary{
		Type:            p.ProfileRole(),
		ID:              p.ProfileID(),
		Name:            p.DisplayName(),
		Email:           p.ContactEmail(),
		Phone:           p.ContactPhone(),
		ProfileImageURL: p.ImageURL(),
	}
}
