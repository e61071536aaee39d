package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served HTTP requests by route pattern, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "samaj",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests served.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route pattern
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "samaj",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// WSConnections is the number of open WebSocket connections
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "samaj",
		Name:      "ws_connections",
		Help:      "Open WebSocket connections.",
	})

	// NotificationsCreated counts notification rows written by family fan-out
	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "samaj",
		Name:      "notifications_created_total",
		Help:      "Family notifications written.",
	})

	// NotificationFailures counts notification rows or pushes that could not be delivered
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "samaj",
		Name:      "notification_failures_total",
		Help:      "Failed notification writes and pushes.",
	}, []string{"stage"})

	// PaymentsInitiated counts payment initiations by outcome
	PaymentsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "samaj",
		Name:      "payments_initiated_total",
		Help:      "Payment gateway initiations.",
	}, []string{"outcome"})
)
