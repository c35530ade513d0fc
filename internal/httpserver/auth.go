package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/service"
	"github.com/framepix/frame_shop/internal/transport"
	"github.com/framepix/frame_shop/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		he := httpError(err)
		l.Warn("register_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("register_success", "userID", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		he := httpError(err)
		l.Warn("login_error", "status", he.Code, "error", err)
		return he
	}

	setAuthCookies(c, pair)

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		IsAdmin:      pair.User.Role == "admin",
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie("refreshToken")
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		clearAuthCookies(c)
		he := httpError(err)
		l.Warn("refresh_error", "status", he.Code, "error", err)
		return he
	}

	setAuthCookies(c, pair)

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		IsAdmin:      pair.User.Role == "admin",
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()

	raw := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		raw = cookie.Value
	}

	if err := h.Svc.LogOut(ctx, raw); err != nil {
		he := httpError(err)
		logging.FromContext(ctx).Warn("logout_error", "status", he.Code, "error", err)
		return he
	}

	clearAuthCookies(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func setAuthCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(tokens.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
}
