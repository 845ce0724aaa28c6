package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portalbase/portal-api/internal/repo/mongodb"
)

type HealthController interface {
	Health(c echo.Context) error
}

type healthController struct {
	db *mongodb.DB
}

func NewHealthController(db *mongodb.DB) HealthController {
	return &healthController{db: db}
}

func (h *healthController) Health(c echo.Context) error {
	status := "healthy"
	code := http.StatusOK
	if err := h.db.Ping(c.Request().Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]string{
		"status":  status,
		"service": "portal-api",
	})
}
