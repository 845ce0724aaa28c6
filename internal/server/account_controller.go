package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/models"
	pkgmdw "github.com/portalbase/portal-api/internal/server/middleware"
	"github.com/portalbase/portal-api/internal/usecase"
)

type AccountController interface {
	CreateProfile(c echo.Context) error
	UpdateProfile(c echo.Context) error
	MergeProfiles(c echo.Context) error
	SwitchAccount(c echo.Context) error
	GetAccounts(c echo.Context) error
}

type accountController struct {
	accountUsecase *usecase.AccountUsecase
	mergeUsecase   *usecase.MergeUsecase
}

func NewAccountController(accountUsecase *usecase.AccountUsecase, mergeUsecase *usecase.MergeUsecase) AccountController {
	return &accountController{
		accountUsecase: accountUsecase,
		mergeUsecase:   mergeUsecase,
	}
}

// pathUserID parses the :userId param and rejects requests acting on a
// user other than the authenticated one.
func pathUserID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	user := pkgmdw.GetUser(c)
	if user == nil || user.ID != id {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusForbidden, "cannot act on another user's account")
	}
	return id, nil
}

func (ac *accountController) CreateProfile(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	summary, err := ac.accountUsecase.CreateProfile(ctx, userID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, &pkgmdw.Response{
		Success: true,
		Data:    summary,
	})
}

func (ac *accountController) UpdateProfile(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}
	profileID, err := primitive.ObjectIDFromHex(c.Param("profileId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	summary, err := ac.accountUsecase.UpdateProfile(ctx, userID, profileID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data:    summary,
	})
}

func (ac *accountController) MergeProfiles(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req models.MergeProfilesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sourceID, err := primitive.ObjectIDFromHex(req.SourceProfileID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid source profile id")
	}
	targetID, err := primitive.ObjectIDFromHex(req.TargetProfileID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid target profile id")
	}

	ctx := c.Request().Context()
	if err := ac.mergeUsecase.Merge(ctx, userID, sourceID, targetID, req.ProfileType); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data: map[string]string{
			"message": "profiles merged successfully",
		},
	})
}

func (ac *accountController) SwitchAccount(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req models.SwitchAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	masterID, err := primitive.ObjectIDFromHex(req.MasterID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid master id")
	}

	ctx := c.Request().Context()
	session, err := ac.accountUsecase.SwitchAccount(ctx, userID, req.ActiveProfile, masterID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data:    session,
	})
}

func (ac *accountController) GetAccounts(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	accounts, err := ac.accountUsecase.ListAccounts(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &pkgmdw.Response{
		Success: true,
		Data:    accounts,
	})
}
