package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/framepix/frame_shop/internal/media"
	"github.com/framepix/frame_shop/internal/payment"
	"github.com/framepix/frame_shop/internal/service"
)

// httpError maps service sentinels onto status codes at the request
// boundary; anything unrecognized becomes a 500 without leaking internals.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrSignatureMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "payment signature mismatch")
	case errors.Is(err, payment.ErrUpstream), errors.Is(err, media.ErrUpstream):
		return echo.NewHTTPError(http.StatusBadGateway, "upstream failure")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	case errors.Is(err, service.ErrUserAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
