package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/usecase"
)

const userContextKey = "user"

// JWTAuth validates the bearer token and stores the resolved user in
// the echo context. The user is loaded fresh per request, so a revoked
// or deactivated account fails here even with a token that has not
// expired yet.
func JWTAuth(sessions *usecase.SessionUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			ctx := c.Request().Context()
			user, err := sessions.Validate(ctx, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(userContextKey, user)
			c.Set("user_id", user.ID.Hex())
			return next(c)
		}
	}
}

// GetUser returns the authenticated user stored by JWTAuth, or nil on
// unauthenticated routes.
func GetUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
