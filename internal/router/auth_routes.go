package router

import (
	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/handler"
)

// RegisterAuth registers the session endpoints under /api/auth.  Only the
// profile lookup needs an existing session, so gate 1 is applied to that
// route alone, ahead of the limiter so the caller can be keyed by id.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup, limiter)
	g.POST("/signin", a.Signin, limiter)
	g.POST("/signout", a.Signout, limiter) // idempotent, no session required
	g.GET("/profile", a.Profile, authn, limiter)
}
