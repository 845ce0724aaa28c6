package usecase

import (
	"context"
	"errors"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
)

// Transactor runs fn with multi-document atomicity. mongodb.DB provides
// the real implementation over a session.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MergeUsecase consolidates two profiles of the same type belonging to
// one user: every tenant-client mapping and project referencing the
// target is repointed to the source, then the target's user mapping row
// is removed. The underlying tenant/client document is kept so any
// reference outside the repointed collections stays resolvable.
type MergeUsecase struct {
	tx            Transactor
	users         mongodb.UserRepository
	mappings      mongodb.UserProfileMappingRepository
	tenantClients mongodb.TenantClientMappingRepository
	projects      mongodb.ProjectRepository
}

func NewMergeUsecase(
	tx Transactor,
	users mongodb.UserRepository,
	mappings mongodb.UserProfileMappingRepository,
	tenantClients mongodb.TenantClientMappingRepository,
	projects mongodb.ProjectRepository,
) *MergeUsecase {
	return &MergeUsecase{
		tx:            tx,
		users:         users,
		mappings:      mappings,
		tenantClients: tenantClients,
		projects:      projects,
	}
}

func (uc *MergeUsecase) Merge(ctx context.Context, userID, sourceID, targetID primitive.ObjectID, role models.ProfileRole) error {
	if sourceID.IsZero() || targetID.IsZero() || !role.Valid() {
		return fmt.Errorf("source, target and profile type are required: %w", models.ErrBadRequest)
	}
	if sourceID == targetID {
		return fmt.Errorf("source and target must differ: %w", models.ErrBadRequest)
	}

	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := uc.mappings.Get(ctx, userID, targetID, role); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("target profile does not belong to user: %w", models.ErrNotFound)
		}
		return err
	}

	// The repoints and the mapping delete must land together; a crash
	// in between would strand repointed rows under a mapping that no
	// longer matches.
	return uc.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var repointMappings, repointProjects int64
		var err error

		switch role {
		case models.RoleTenant:
			if repointMappings, err = uc.tenantClients.RepointTenant(txCtx, targetID, sourceID); err != nil {
				return err
			}
			if repointProjects, err = uc.projects.RepointTenant(txCtx, targetID, sourceID); err != nil {
				return err
			}
		case models.RoleClient:
			if repointMappings, err = uc.tenantClients.RepointClient(txCtx, targetID, sourceID); err != nil {
				return err
			}
			if repointProjects, err = uc.projects.RepointClient(txCtx, targetID, sourceID); err != nil {
				return err
			}
		}

		if err := uc.mappings.Delete(txCtx, userID, targetID, role); err != nil {
			return err
		}

		log.Infow(txCtx, "profiles merged",
			"user_id", userID.Hex(),
			"source_id", sourceID.Hex(),
			"target_id", targetID.Hex(),
			"role", role,
			"mappings_repointed", repointMappings,
			"projects_repointed", repointProjects,
		)
		return nil
	})
}
