// Package metrics defines Prometheus metrics for the board server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphboard_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphboard_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphboard_mutations_total",
			Help: "Board mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	EventsBroadcast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphboard_events_broadcast_total",
			Help: "Change events broadcast to WebSocket clients",
		},
		[]string{"type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphboard_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	NodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphboard_nodes",
			Help: "Current node count",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphboard_edges",
			Help: "Current edge count",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		MutationsTotal, EventsBroadcast, WSConnections,
		NodeCount, EdgeCount,
	)
}
