package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/config"
	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
)

const otpLength = 6

// OtpNotifier delivers a one-time code to the recipient, using the
// tenant's template and transport when tenantID resolves.
type OtpNotifier interface {
	SendOtp(ctx context.Context, tenantID primitive.ObjectID, recipient, code string, purpose models.OtpPurpose, expiry time.Duration) error
}

// AuthUsecase drives the OTP login/registration flow end to end:
// issuance, verification, first-registration profile creation and
// session minting.
type AuthUsecase struct {
	users     mongodb.UserRepository
	otps      mongodb.OtpRepository
	clients   mongodb.ClientRepository
	mappings  mongodb.UserProfileMappingRepository
	resolver  *ProfileResolver
	sessions  *SessionUsecase
	notifier  OtpNotifier
	otpExpiry time.Duration
}

func NewAuthUsecase(
	cfg *config.Config,
	users mongodb.UserRepository,
	otps mongodb.OtpRepository,
	clients mongodb.ClientRepository,
	mappings mongodb.UserProfileMappingRepository,
	resolver *ProfileResolver,
	sessions *SessionUsecase,
	notifier OtpNotifier,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		otps:      otps,
		clients:   clients,
		mappings:  mappings,
		resolver:  resolver,
		sessions:  sessions,
		notifier:  notifier,
		otpExpiry: cfg.Otp.Expiry,
	}
}

// AcceptInvitation clears the client's invitation token and activates
// the account so OTP login becomes possible.
func (uc *AuthUsecase) AcceptInvitation(ctx context.Context, token string) (*models.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("invitation token is required: %w", models.ErrBadRequest)
	}

	client, err := uc.clients.AcceptInvitation(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := uc.clients.TouchActivity(ctx, client.ID); err != nil {
		log.Warnw(ctx, "touch client activity", "client_id", client.ID.Hex(), "error", err)
	}
	return client, nil
}

// SendOtp issues a fresh code for email, replacing any live one. The
// returned warning is non-empty when the code was stored but delivery
// failed; the caller surfaces it instead of rolling back the issuance.
func (uc *AuthUsecase) SendOtp(ctx context.Context, email string, purpose models.OtpPurpose) (string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", err
	}
	exists := err == nil

	switch purpose {
	case models.OtpPurposeRegistration:
		if exists {
			return "", fmt.Errorf("a user with this email %w", models.ErrConflict)
		}
	case models.OtpPurposeLogin:
		if !exists {
			return "", fmt.Errorf("user not found, please register: %w", models.ErrNotFound)
		}
		if err := uc.checkLoginEligibility(ctx, user); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown otp type %q: %w", purpose, models.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	if err := uc.otps.Upsert(ctx, email, code, time.Now().Add(uc.otpExpiry)); err != nil {
		return "", err
	}

	tenantID := primitive.NilObjectID
	if exists && user.ActiveProfile == models.RoleTenant {
		tenantID = user.ActiveProfileID
	}

	if err := uc.notifier.SendOtp(ctx, tenantID, email, code, purpose, uc.otpExpiry); err != nil {
		// The code is stored and verifiable; report delivery as a
		// retryable warning rather than failing the issuance.
		log.Warnw(ctx, "otp delivery failed", "email", email, "error", err)
		return fmt.Sprintf("delivery failed: %v", err), nil
	}

	return "", nil
}

// checkLoginEligibility blocks login-type issuance for client profiles
// that have not accepted their invitation or have been deactivated.
func (uc *AuthUsecase) checkLoginEligibility(ctx context.Context, user *models.User) error {
	if user.ActiveProfile != models.RoleClient {
		return nil
	}

	profile, err := uc.resolver.Load(ctx, models.RoleClient, user.ActiveProfileID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	client, ok := profile.(*models.Client)
	if !ok {
		return nil
	}
	if client.Invited() {
		return fmt.Errorf("invitation not accepted: %w", models.ErrForbidden)
	}
	if !client.IsActive {
		return fmt.Errorf("account is inactive: %w", models.ErrForbidden)
	}
	return nil
}

// VerifyOtp consumes the code and completes registration or login,
// returning a fresh session bound to the user.
func (uc *AuthUsecase) VerifyOtp(ctx context.Context, req models.VerifyOtpRequest) (*models.AuthSession, error) {
	if err := uc.otps.Consume(ctx, req.Email, req.Otp); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		if req.Type != models.OtpPurposeRegistration {
			return nil, fmt.Errorf("user not found, please register: %w", models.ErrNotFound)
		}
		user, err = uc.register(ctx, req)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		user.LastActiveDate = time.Now()
		user.Status = models.UserStatusActive
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return uc.sessionFor(ctx, user)
}

func (uc *AuthUsecase) register(ctx context.Context, req models.VerifyOtpRequest) (*models.User, error) {
	role := req.ActiveProfile
	if role == "" {
		role = models.RoleTenant
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required for registration: %w", models.ErrBadRequest)
	}

	profile, err := uc.resolver.Create(ctx, role, req.Name, req.Email, req.Phone, "")
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           req.Email,
		Phone:           req.Phone,
		ActiveProfile:   role,
		ActiveProfileID: profile.ProfileID(),
		LastActiveDate:  time.Now(),
		Status:          models.UserStatusActive,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	mapping := &models.UserTenantClientMapping{
		UserID:   user.ID,
		MasterID: profile.ProfileID(),
		Role:     role,
	}
	if err := uc.mappings.Create(ctx, mapping); err != nil && !errors.Is(err, models.ErrConflict) {
		return nil, err
	}

	return user, nil
}

// sessionFor mints a token and resolves display fields for the active
// profile. A missing profile document degrades to empty display fields
// instead of failing the login.
func (uc *AuthUsecase) sessionFor(ctx context.Context, user *models.User) (*models.AuthSession, error) {
	token, _, err := uc.sessions.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	session := &models.AuthSession{
		Token:           token,
		UserID:          user.ID,
		ActiveProfile:   user.ActiveProfile,
		ActiveProfileID: user.ActiveProfileID,
	}

	if user.ActiveProfile != "" && !user.ActiveProfileID.IsZero() {
		profile, err := uc.resolver.Load(ctx, user.ActiveProfile, user.ActiveProfileID)
		if err == nil {
			session.ProfileName = profile.DisplayName()
			session.ActiveProfileImage = profile.ImageURL()
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	return session, nil
}

// generateCode draws each of the six digits independently so leading
// zeros are as likely as any other digit.
func generateCode() (string, error) {
	digits := make([]byte, otpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
