// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Notification hub metrics
var (
	// NotifyConnectedPeers tracks current live connections per role.
	NotifyConnectedPeers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notify_connected_peers",
			Help: "Current live WebSocket connections by role",
		},
		[]string{"role"},
	)

	// NotificationsDeliveredTotal counts successfully delivered notifications.
	NotificationsDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Notifications delivered to peers by kind and audience",
		},
		[]string{"kind", "audience"},
	)

	// NotifySendFailuresTotal counts writes that failed and evicted a peer.
	NotifySendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_send_failures_total",
			Help: "Total failed notification writes",
		},
	)

	// NotifyPeersReapedTotal counts peers reaped by the heartbeat monitor.
	NotifyPeersReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_peers_reaped_total",
			Help: "Total peers reaped after missing two consecutive heartbeats",
		},
	)
)

// HTTP API metrics
var (
	// HTTPRequestsTotal counts API requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)
