package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/simple_shop/internal/domain"
	authmw "github.com/Skotchmaster/simple_shop/internal/middleware/auth"
)

// fail maps a service error to an HTTP error and logs it under event.
// Expected failures are logged at Warn, everything else at Error with the
// generic message fallback.
func fail(l *slog.Logger, event string, err error, fallback string) error {
	var (
		code int
		msg  string
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		code, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		code, msg = http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, domain.ErrNotFound):
		code, msg = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		code, msg = http.StatusConflict, "already exists"
	default:
		l.Error(event, "status", http.StatusInternalServerError, "reason", fallback, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
	l.Warn(event, "status", code, "reason", msg, "error", err)
	return echo.NewHTTPError(code, msg)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(id), nil
}

func principal(c echo.Context) (authmw.Principal, error) {
	p, ok := authmw.PrincipalFromContext(c.Request().Context())
	if !ok {
		return authmw.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return p, nil
}
