package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	dto "github.com/prometheus/client_model/go"

	"github.com/codeypas/portfolio-final/internal/metrics"
)

func requestCount(method, route, status string) float64 {
	m := &dto.Metric{}
	if err := metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_RecordsHTTPErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/api/projects/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	})
	e.GET("/api/projects", func(c echo.Context) error { return c.JSON(http.StatusOK, []string{}) })

	before404 := requestCount("GET", "/api/projects/:id", "404")
	before200 := requestCount("GET", "/api/projects", "200")

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/x", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, before404+1, requestCount("GET", "/api/projects/:id", "404"))
	assert.Equal(t, before200+1, requestCount("GET", "/api/projects", "200"))
}
