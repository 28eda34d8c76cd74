package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness check used by load balancers and the frontend.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "message": "Backend is healthy"})
}

// Ping answers the legacy /test route.
func Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "API is working"})
}
