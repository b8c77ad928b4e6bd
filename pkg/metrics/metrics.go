package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets for platform API calls, from fast cache-backed reads to slow reports
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

	// Gateway Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supercoach_api_request_duration_seconds",
			Help:    "Platform API request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"endpoint", "http_request_method", "http_response_status_code"},
	)

	APIRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_api_request_total",
			Help: "Total number of platform API requests",
		},
		[]string{"endpoint", "http_request_method", "http_response_status_code"},
	)

	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_token_refresh_total",
			Help: "Total number of access token refresh attempts",
		},
		[]string{"status"},
	)

	AuthRedirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_auth_redirects_total",
			Help: "Total number of redirects to login after unrecoverable auth failures",
		},
		[]string{"reason"},
	)

	// Loader Metrics
	FallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_fallback_served_total",
			Help: "Total number of fetches answered with a built-in fallback dataset",
		},
		[]string{"resource"},
	)

	StaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_stale_served_total",
			Help: "Total number of failed fetches that kept previously loaded data",
		},
		[]string{"resource"},
	)

	SupersededResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_superseded_responses_total",
			Help: "Total number of responses discarded because a newer fetch was issued",
		},
		[]string{"resource"},
	)

	// Dashboard HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Business Metrics
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supercoach_mutations_total",
			Help: "Total number of create/enroll operations",
		},
		[]string{"operation", "status"},
	)
)

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
