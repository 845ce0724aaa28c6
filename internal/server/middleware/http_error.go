package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portalbase/portal-api/internal/models"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, models.ErrInvalidOrExpired):
		return http.StatusBadRequest, "invalid_or_expired"
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, models.ErrDependency):
		return http.StatusBadGateway, "dependency_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ErrorHandler translates domain errors into the response envelope.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &ResponseError{
			Status:  http.StatusInternalServerError,
			Success: false,
			Err:     err,
		}

		switch v := err.(type) {
		case *echo.HTTPError:
			resp.Status = v.Code
			resp.ErrorMessage = fmt.Sprint(v.Message)
		case *ResponseError:
			resp = v
		default:
			status, code := statusFor(err)
			resp.Status = status
			resp.ErrorCode = code
			resp.ErrorMessage = err.Error()

			// detect canceled request error
			if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
				resp.Status = 499
			}
			if resp.Status == http.StatusInternalServerError {
				resp.ErrorMessage = http.StatusText(http.StatusInternalServerError)
			}
		}

		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if err := c.JSON(resp.Status, resp); err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}
