package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notarycalc_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notarycalc_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CalculationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notarycalc_calculations_created_total",
			Help: "Total number of stored fee calculations",
		},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notarycalc_webhook_events_total",
			Help: "Payment webhook events by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notarycalc_emails_sent_total",
			Help: "Transactional emails by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
