package authmw

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/simple_shop/internal/logging"
	"github.com/Skotchmaster/simple_shop/internal/service"
	"github.com/Skotchmaster/simple_shop/internal/tokens"
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*service.LoginResult, error)
}

// SessionChecker tells whether the session an access token belongs to is still
// open. A nil checker accepts every signed, unexpired access token.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID string) (bool, error)
}

type Middleware struct {
	JWTSecret    []byte
	Refresher    Refresher
	Sessions     SessionChecker
	CookieSecure bool
}

// RequireAuth accepts a valid access cookie whose session is still open. When
// the access token is missing, expired or belongs to a closed session and a
// refresh cookie is present, the pair is rotated and new cookies are written
// before the handler runs.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("mw", "require_auth")

		var access string
		if ck, err := c.Cookie(tokens.AccessCookie); err == nil {
			access = ck.Value
		}

		if access != "" {
			claims, err := tokens.AccessClaimsFromToken(access, m.JWTSecret)
			if err == nil {
				active, sErr := m.sessionActive(c.Request().Context(), claims)
				if sErr != nil {
					l.Error("auth_failed", "status", 500, "reason", "cannot check session", "error", sErr)
					return echo.NewHTTPError(http.StatusInternalServerError, "cannot check session")
				}
				if active {
					return m.serve(c, next, claims)
				}
				l.Warn("auth_stale_session", "reason", "session closed", "sid", claims.SessionID)
			} else if !errors.Is(err, jwt.ErrTokenExpired) {
				l.Warn("auth_rejected", "status", 401, "reason", "invalid access token", "error", err)
				m.clearCookies(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
		}

		refresh, rErr := c.Cookie(tokens.RefreshCookie)
		if rErr != nil || refresh.Value == "" || m.Refresher == nil {
			if access != "" {
				m.clearCookies(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}

		res, err := m.Refresher.Refresh(c.Request().Context(), refresh.Value)
		if err != nil {
			l.Warn("auth_rejected", "status", 401, "reason", "refresh failed", "error", err)
			m.clearCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		SetAuthCookies(c, res, m.CookieSecure)

		claims, err := tokens.AccessClaimsFromToken(res.AccessToken, m.JWTSecret)
		if err != nil {
			m.clearCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		l.Info("session_refreshed", "user_id", res.UserID)
		return m.serve(c, next, claims)
	}
}

func (m *Middleware) sessionActive(ctx context.Context, claims *tokens.AccessClaims) (bool, error) {
	if m.Sessions == nil {
		return true, nil
	}
	return m.Sessions.SessionActive(ctx, claims.SessionID)
}

func (m *Middleware) serve(c echo.Context, next echo.HandlerFunc, claims *tokens.AccessClaims) error {
	userID, err := claims.UserID()
	if err != nil {
		m.clearCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	p := Principal{UserID: userID, Role: claims.Role}
	ctx := WithPrincipal(c.Request().Context(), p)
	ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", userID))
	c.SetRequest(c.Request().WithContext(ctx))
	return next(c)
}

func (m *Middleware) clearCookies(c echo.Context) {
	ClearAuthCookies(c, m.CookieSecure)
}

func SetAuthCookies(c echo.Context, res *service.LoginResult, secure bool) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, secure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, secure))
}

func ClearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", secure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", secure))
}
