package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/metrics"
	"github.com/codeypas/portfolio-final/internal/model"
	"github.com/codeypas/portfolio-final/internal/utils"
)

// Messages returned by the two auth gates.
const (
	MsgNoToken       = "Unauthorized: No token provided"
	MsgInvalidToken  = "Forbidden: Invalid token"
	MsgAdminRequired = "Forbidden: Admin access required"
)

// TokenVerifier is the part of utils.TokenIssuer the gate needs.
type TokenVerifier interface {
	Verify(raw string) (model.Identity, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	return id, ok
}

// IdentityFrom is IdentityFromContext for an echo request.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	return IdentityFromContext(c.Request().Context())
}

// Authenticate is gate 1.  It reads the session cookie and verifies the
// token: no cookie is 401, any verification failure is 403, and a valid
// token attaches its identity to the request context.
func Authenticate(tokens TokenVerifier, cookie utils.SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := cookie.Read(c)
			if !ok {
				slog.Warn("auth: no session cookie", "path", c.Path(), "ip", c.RealIP())
				metrics.RecordAuthEvent(metrics.EventTokenMissing)
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				slog.Warn("auth: token verification failed", "path", c.Path(), "err", err)
				metrics.RecordAuthEvent(metrics.EventTokenInvalid)
				return echo.NewHTTPError(http.StatusForbidden, MsgInvalidToken)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}
