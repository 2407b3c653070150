package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parlor_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parlor_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Dispatch metrics
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parlor_queue_depth",
			Help: "Current dispatch queue backlog",
		},
	)

	MessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parlor_messages_rejected_total",
			Help: "Messages rejected before dispatch",
		},
		[]string{"reason"}, // "invalid", "rate_limited", "overloaded"
	)

	DedupHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parlor_dedup_hits_total",
			Help: "Replies served from the dedup cache",
		},
	)

	DegradedReplies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parlor_degraded_replies_total",
			Help: "Fallback replies served while a breaker was open",
		},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parlor_breaker_state",
			Help: "Circuit breaker state per backend (0=closed, 1=open, 2=half-open)",
		},
		[]string{"backend"},
	)

	HandleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parlor_handle_duration_seconds",
			Help:    "Orchestrator handling latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)
