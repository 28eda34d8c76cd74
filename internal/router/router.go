package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/handler"
	"github.com/codeypas/portfolio-final/internal/metrics"
)

// RegisterRoutes registers the operational endpoints: health checks and
// the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.Health)
	e.GET("/test", handler.Ping)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
