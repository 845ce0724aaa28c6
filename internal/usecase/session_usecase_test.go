package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/config"
	"github.com/portalbase/portal-api/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	session := f.registerTenant(t, "a@x.com", "Acme")

	user, err := f.sessions.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, user.ID)
	assert.Equal(t, models.RoleTenant, user.ActiveProfile)
}

func TestSessionRejectsGarbageToken(t *testing.T) {
	f := newAuthFixture()

	_, err := f.sessions.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	f := newAuthFixture()
	session := f.registerTenant(t, "a@x.com", "Acme")

	cfg := &config.Config{}
	cfg.JWT.Secret = "other-secret"
	cfg.JWT.Expiry = time.Hour
	other := NewSessionUsecase(cfg, f.users, f.mappings)

	forged, _, err := other.Issue(session.UserID)
	require.NoError(t, err)

	_, err = f.sessions.Validate(context.Background(), forged)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture()

	token, _, err := f.sessions.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	_, err = f.sessions.Validate(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionRejectsInactiveUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	session := f.registerTenant(t, "a@x.com", "Acme")

	user, err := f.users.GetByID(ctx, session.UserID)
	require.NoError(t, err)
	user.Status = models.UserStatusInactive
	require.NoError(t, f.users.Update(ctx, user))

	_, err = f.sessions.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionClearsStaleActiveProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	session := f.registerTenant(t, "a@x.com", "Acme")

	// remove the backing mapping; the persisted active pair is now stale
	require.NoError(t, f.mappings.Delete(ctx, session.UserID, session.ActiveProfileID, models.RoleTenant))

	user, err := f.sessions.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Empty(t, user.ActiveProfile)
	assert.True(t, user.ActiveProfileID.IsZero())
}

func TestIssueEmbedsExpiry(t *testing.T) {
	f := newAuthFixture()

	_, expiresAt, err := f.sessions.Issue(primitive.NewObjectID())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
}
