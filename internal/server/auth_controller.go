package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portalbase/portal-api/internal/models"
	pkgmdw "github.com/portalbase/portal-api/internal/server/middleware"
	"github.com/portalbase/portal-api/internal/usecase"
)

type AuthController interface {
	SendOtp(c echo.Context) error
	VerifyOtp(c echo.Context) error
	VerifyInvitation(c echo.Context) error
	Logout(c echo.Context) error
}

type authController struct {
	authUsecase *usecase.AuthUsecase
}

func NewAuthController(authUsecase *usecase.AuthUsecase) AuthController {
	return &authController{
		authUsecase: authUsecase,
	}
}

func (ac *authController) SendOtp(c echo.Context) error {
	var req models.SendOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	warning, err := ac.authUsecase.SendOtp(ctx, req.Email, req.Type)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data: models.SendOtpResponse{
			Message: "OTP sent successfully",
			Warning: warning,
		},
	})
}

func (ac *authController) VerifyOtp(c echo.Context) error {
	var req models.VerifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	session, err := ac.authUsecase.VerifyOtp(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data:    session,
	})
}

func (ac *authController) VerifyInvitation(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing invitation token")
	}

	ctx := c.Request().Context()
	client, err := ac.authUsecase.AcceptInvitation(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrInvalidOrExpired) {
			return &pkgmdw.ResponseError{
				Status:       http.StatusBadRequest,
				Err:          err,
				ErrorCode:    "invalid_or_expired",
				ErrorMessage: "Invitation token is invalid or already used.",
			}
		}
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data: map[string]any{
			"message": "Invitation accepted",
			"client":  client,
		},
	})
}

// Logout is a stateless acknowledgment. Tokens are not tracked server
// side, so there is nothing to revoke; clients drop the token locally.
func (ac *authController) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data: map[string]string{
			"message": "logged out successfully",
		},
	})
}
