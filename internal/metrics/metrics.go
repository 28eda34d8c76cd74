// Package metrics defines the Prometheus metrics exposed on /metrics.
//
// Metric naming follows Prometheus conventions:
//   - portfolio_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every metric of the process.  A private registry keeps
// tests independent of whatever else registers with the global default.
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds is a histogram of handler latency by route.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthEventsTotal counts authentication outcomes (signup, signin_failed,
	// token_missing, admin_denied, ...).
	AuthEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_auth_events_total",
			Help: "Authentication and authorization outcomes by event.",
		},
		[]string{"event"},
	)

	// ContactEventsTotal counts contact notifications by stage and result.
	ContactEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_contact_events_total",
			Help: "Contact notifications published and consumed, by result.",
		},
		[]string{"stage", "result"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limited_total",
			Help: "Requests rejected with 429, by limiter backend.",
		},
		[]string{"backend"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthEventsTotal,
		ContactEventsTotal,
		RateLimitedTotal,
	)
}

// Auth event names.
const (
	EventSignup          = "signup"
	EventSignupDuplicate = "signup_duplicate"
	EventSignin          = "signin"
	EventSigninFailed    = "signin_failed"
	EventTokenMissing    = "token_missing"
	EventTokenInvalid    = "token_invalid"
	EventAdminDenied     = "admin_denied"
)

// RecordRequest records one served request.
func RecordRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordAuthEvent records a single authentication outcome.
func RecordAuthEvent(event string) {
	AuthEventsTotal.WithLabelValues(event).Inc()
}

// RecordContactEvent records a publish or consume attempt.
func RecordContactEvent(stage string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ContactEventsTotal.WithLabelValues(stage, result).Inc()
}

// RecordRateLimited records a rejected request.
func RecordRateLimited(backend string) {
	RateLimitedTotal.WithLabelValues(backend).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
