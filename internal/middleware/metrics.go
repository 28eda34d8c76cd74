package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/metrics"
)

// Metrics records the count and latency of every request by route pattern.
// The status of a failed handler is taken from its *echo.HTTPError because
// the error handler has not written the response yet.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			metrics.RecordRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}
