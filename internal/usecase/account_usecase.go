package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
)

// AccountUsecase maintains the many-to-many relationship between a
// user and the profiles they can act as.
type AccountUsecase struct {
	users    mongodb.UserRepository
	mappings mongodb.UserProfileMappingRepository
	resolver *ProfileResolver
	sessions *SessionUsecase
}

func NewAccountUsecase(
	users mongodb.UserRepository,
	mappings mongodb.UserProfileMappingRepository,
	resolver *ProfileResolver,
	sessions *SessionUsecase,
) *AccountUsecase {
	return &AccountUsecase{
		users:    users,
		mappings: mappings,
		resolver: resolver,
		sessions: sessions,
	}
}

// Link records that the user owns the profile. A pre-existing mapping
// for the same pair is not an error.
func (uc *AccountUsecase) Link(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) error {
	mapping := &models.UserTenantClientMapping{
		UserID:   userID,
		MasterID: masterID,
		Role:     role,
	}
	err := uc.mappings.Create(ctx, mapping)
	if errors.Is(err, models.ErrConflict) {
		return nil
	}
	return err
}

// CreateProfile gives an existing user an additional tenant or client
// identity and links it.
func (uc *AccountUsecase) CreateProfile(ctx context.Context, userID primitive.ObjectID, req models.CreateProfileRequest) (*models.AccountSummary, error) {
	if !req.ProfileType.Valid() {
		return nil, fmt.Errorf("profile type must be tenant or client: %w", models.ErrBadRequest)
	}

	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := uc.resolver.Create(ctx, req.ProfileType, req.Name, req.Email, req.Phone, req.ProfileImageURL)
	if err != nil {
		return nil, err
	}

	if err := uc.Link(ctx, userID, profile.ProfileID(), req.ProfileType); err != nil {
		return nil, err
	}

	summary := Summary(profile)
	return &summary, nil
}

// UpdateProfile applies a partial update to one of the user's profiles.
func (uc *AccountUsecase) UpdateProfile(ctx context.Context, userID, profileID primitive.ObjectID, req models.UpdateProfileRequest) (*models.AccountSummary, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := uc.mappings.Get(ctx, userID, profileID, req.ProfileType); err != nil {
		return nil, fmt.Errorf("profile does not belong to user: %w", err)
	}

	profile, err := uc.resolver.UpdateFields(ctx, req.ProfileType, profileID, req)
	if err != nil {
		return nil, err
	}

	summary := Summary(profile)
	return &summary, nil
}

// SwitchAccount makes masterID the user's active profile and returns a
// fresh session for it. The mapping is checked first so the persisted
// active pair can never point at a profile the user does not own.
func (uc *AccountUsecase) SwitchAccount(ctx context.Context, userID primitive.ObjectID, role models.ProfileRole, masterID primitive.ObjectID) (*models.AuthSession, error) {
	if _, err := uc.mappings.Get(ctx, userID, masterID, role); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("no account found: %w", models.ErrNotFound)
		}
		return nil, err
	}

	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := uc.users.SetActiveProfile(ctx, userID, role, masterID); err != nil {
		return nil, err
	}

	token, _, err := uc.sessions.Issue(userID)
	if err != nil {
		return nil, err
	}

	session := &models.AuthSession{
		Token:           token,
		UserID:          userID,
		ActiveProfile:   role,
		ActiveProfileID: masterID,
	}

	profile, err := uc.resolver.Load(ctx, role, masterID)
	if err == nil {
		session.ProfileName = profile.DisplayName()
		session.ActiveProfileImage = profile.ImageURL()
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	return session, nil
}

// ListAccounts resolves every linked profile. Mappings whose profile
// document is gone are dropped rather than failing the whole listing.
func (uc *AccountUsecase) ListAccounts(ctx context.Context, userID primitive.ObjectID) ([]models.AccountSummary, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	mappings, err := uc.mappings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.AccountSummary, len(mappings))
	g, gctx := errgroup.WithContext(ctx)
	for i, mapping := range mappings {
		g.Go(func() error {
			profile, err := uc.resolver.Load(gctx, mapping.Role, mapping.MasterID)
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			s := Summary(profile)
			summaries[i] = &s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accounts := make([]models.AccountSummary, 0, len(summaries))
	for _, s := range summaries {
		if s != nil {
			accounts = append(accounts, *s)
		}
	}
	return accounts, nil
}
