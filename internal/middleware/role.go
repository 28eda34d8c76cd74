package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/metrics"
	"github.com/codeypas/portfolio-final/internal/model"
)

// RequireRole is gate 2.  It must run after Authenticate and lets the
// request through only when the caller's role is one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok || !allowed[id.Role] {
				slog.Warn("auth: role denied", "path", c.Path(), "role", string(id.Role))
				metrics.RecordAuthEvent(metrics.EventAdminDenied)
				return echo.NewHTTPError(http.StatusForbidden, MsgAdminRequired)
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole(model.RoleAdmin).
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin)
}
