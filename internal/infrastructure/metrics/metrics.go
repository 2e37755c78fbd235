// Package metrics provides Prometheus metrics for the chat-share service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "chat_share",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "chat_share",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// SharesTotal counts share and unshare mutations by result.
	SharesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "chat_share",
			Name:      "shares_total",
			Help:      "Total share mutations",
		},
		[]string{"action", "status"},
	)

	// ResolveTotal counts conversation lookups by outcome.
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "chat_share",
			Name:      "resolve_total",
			Help:      "Total conversation resolutions",
		},
		[]string{"outcome"},
	)

	// ShareLinkOutcomesTotal counts how share-link invocations settled.
	ShareLinkOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "chat_share",
			Name:      "share_link_outcomes_total",
			Help:      "Total share link invocations by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records a finished HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordShare records a share or unshare mutation.
func RecordShare(action string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	SharesTotal.WithLabelValues(action, status).Inc()
}

// RecordResolve records a resolver outcome: found, absent or error.
func RecordResolve(outcome string) {
	ResolveTotal.WithLabelValues(outcome).Inc()
}

// RecordShareLinkOutcome records a settled share-link invocation.
func RecordShareLinkOutcome(outcome string) {
	ShareLinkOutcomesTotal.WithLabelValues(outcome).Inc()
}
