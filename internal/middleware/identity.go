package middleware

// identity.go holds helpers shared by the rate limiter and other middleware
// that need a caller key without requiring authentication.

import (
	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated subject, or "anon" when the route
// is public or gate 1 has not run.
func currentUserID(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok && id.SubjectID != "" {
		return id.SubjectID
	}
	return "anon"
}

// clientIP is echo's RealIP with a placeholder for empty results.
func clientIP(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}
