// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_signups_total",
			Help: "Total number of successful activity signups",
		},
	)

	UnregistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_unregistrations_total",
			Help: "Total number of successful activity unregistrations",
		},
	)

	OperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_operation_failures_total",
			Help: "Total number of failed activity operations",
		},
		[]string{"operation", "error_code"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_event_publish_failures_total",
			Help: "Total number of participant events that failed to reach at least one sink",
		},
		[]string{"event_type"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)
