package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response size in bytes",
		Buckets: prometheus.ExponentialBuckets(100, 10, 5),
	}, []string{"method", "path"})

	// upstream (Tuya cloud) metrics
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tuya_upstream_requests_total",
		Help: "Total number of requests issued to the Tuya cloud API",
	}, []string{"operation", "outcome"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tuya_upstream_request_duration_seconds",
		Help:    "Tuya cloud API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	UpstreamTokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuya_upstream_token_refreshes_total",
		Help: "Total number of access token refreshes against the Tuya cloud API",
	})

	// derived-metric metrics
	EnergyQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energy_daily_queries_total",
		Help: "Total number of daily energy derivations by strategy",
	}, []string{"strategy", "outcome"})

	ToggleCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toggle_commands_total",
		Help: "Total number of switch toggle attempts",
	}, []string{"outcome"})
)
