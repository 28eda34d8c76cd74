package router

import (
	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/handler"
)

// ContentMiddleware is the middleware the content routes are built from.
type ContentMiddleware struct {
	Authn      echo.MiddlewareFunc // gate 1
	Admin      echo.MiddlewareFunc // gate 2
	Limiter    echo.MiddlewareFunc // per-route rate limit
	Cache      echo.MiddlewareFunc // public reads
	Invalidate echo.MiddlewareFunc // successful writes
}

// public is the chain of an anonymous route.
func (mw ContentMiddleware) public(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append([]echo.MiddlewareFunc{mw.Limiter}, extra...)
}

// admin is the chain of a mutation.  The limiter runs after gate 1 so user
// keyed strategies see the caller's identity.
func (mw ContentMiddleware) admin(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append([]echo.MiddlewareFunc{mw.Authn, mw.Limiter, mw.Admin}, extra...)
}

// RegisterContent registers the four content collections.  Reads of blogs,
// study resources and projects are public; every mutation runs gate 1 then
// gate 2.  The contact form is the one public write.
func RegisterContent(e *echo.Echo, h *handler.ContentHandler, mw ContentMiddleware) {
	registerResource(e.Group("/api/blogs"), h.Blogs, mw)
	registerResource(e.Group("/api/study"), h.Study, mw)
	registerResource(e.Group("/api/projects"), h.Projects, mw)

	// ---- Contact ----
	g := e.Group("/api/contact")
	g.POST("", h.Contacts.Create, mw.public()...)
	g.GET("", h.Contacts.List, mw.admin()...)
	g.PUT("/:id/read", h.Contacts.MarkRead, mw.admin()...)
	g.DELETE("/:id", h.Contacts.Delete, mw.admin()...)
}

func registerResource[T any](g *echo.Group, r *handler.Resource[T], mw ContentMiddleware) {
	g.GET("", r.List, mw.public(mw.Cache)...)
	g.GET("/:id", r.Get, mw.public(mw.Cache)...)
	g.POST("", r.Create, mw.admin(mw.Invalidate)...)
	g.PUT("/:id", r.Update, mw.admin(mw.Invalidate)...)
	g.DELETE("/:id", r.Delete, mw.admin(mw.Invalidate)...)
}
