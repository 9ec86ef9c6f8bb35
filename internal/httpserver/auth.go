package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/simple_shop/internal/logging"
	authmw "github.com/Skotchmaster/simple_shop/internal/middleware/auth"
	"github.com/Skotchmaster/simple_shop/internal/service"
	"github.com/Skotchmaster/simple_shop/internal/tokens"
	"github.com/Skotchmaster/simple_shop/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "register_error", err, "cannot register user")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "user registered",
		"username": user.Username,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err, "cannot log in")
	}

	authmw.SetAuthCookies(c, res, h.CookieSecure)
	l.Info("login_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "logged in",
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "refresh cookie missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	res, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		authmw.ClearAuthCookies(c, h.CookieSecure)
		return fail(l, "refresh_error", err, "cannot refresh session")
	}

	authmw.SetAuthCookies(c, res, h.CookieSecure)
	l.Info("refresh_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "session refreshed"})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	p, err := principal(c)
	if err != nil {
		return err
	}

	var refresh string
	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		refresh = ck.Value
	}
	// Cookies set by an auto-refresh in this request win over the stale ones.
	for _, ck := range c.Response().Header().Values(echo.HeaderSetCookie) {
		if parsed, err := http.ParseSetCookie(ck); err == nil && parsed.Name == tokens.RefreshCookie && parsed.Value != "" {
			refresh = parsed.Value
		}
	}

	authmw.ClearAuthCookies(c, h.CookieSecure)
	if err := h.Svc.LogOut(ctx, p.UserID, refresh); err != nil {
		return fail(l, "logout_error", err, "cannot revoke session")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
