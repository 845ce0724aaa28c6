package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/config"
	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
)

// SessionUsecase mints and validates bearer tokens. Tokens carry only
// the user id; the active profile is re-read from the database on every
// request so a switch in one tab is immediately visible everywhere.
type SessionUsecase struct {
	userRepo    mongodb.UserRepository
	mappingRepo mongodb.UserProfileMappingRepository
	secret      string
	expiry      time.Duration
}

func NewSessionUsecase(cfg *config.Config, userRepo mongodb.UserRepository, mappingRepo mongodb.UserProfileMappingRepository) *SessionUsecase {
	return &SessionUsecase{
		userRepo:    userRepo,
		mappingRepo: mappingRepo,
		secret:      cfg.JWT.Secret,
		expiry:      cfg.JWT.Expiry,
	}
}

func (uc *SessionUsecase) Issue(userID primitive.ObjectID) (string, time.Time, error) {
	expiresAt := time.Now().Add(uc.expiry)

	claims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses the token, loads the user and re-checks the cached
// active profile pair against the mapping collection. A pair without a
// backing mapping row is stale and is cleared on the returned copy.
func (uc *SessionUsecase) Validate(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := uc.parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("token user: %w", models.ErrUnauthorized)
		}
		return nil, err
	}

	if user.Status == models.UserStatusInactive {
		return nil, fmt.Errorf("account deactivated: %w", models.ErrUnauthorized)
	}

	if user.ActiveProfile != "" && !user.ActiveProfileID.IsZero() {
		_, err := uc.mappingRepo.Get(ctx, user.ID, user.ActiveProfileID, user.ActiveProfile)
		if errors.Is(err, models.ErrNotFound) {
			user.ActiveProfile = ""
			user.ActiveProfileID = primitive.NilObjectID
		} else if err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (uc *SessionUsecase) parse(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(uc.secret), nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, errors.New("invalid token claims")
	}

	raw, _ := claims["user_id"].(string)
	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}
