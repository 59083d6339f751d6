// Package metrics provides Prometheus metrics for the webdesk server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Session metrics
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webdesk_sessions_active",
			Help: "Number of live desktop sessions",
		},
	)

	sessionsReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webdesk_sessions_reaped_total",
			Help: "Total sessions closed for being idle",
		},
	)

	// Window manager metrics
	windowsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webdesk_windows_open",
			Help: "Number of open windows across all sessions",
		},
	)

	appLaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_app_launches_total",
			Help: "Total application launches",
		},
		[]string{"app"},
	)

	// File system metrics
	vfsNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webdesk_vfs_nodes",
			Help: "Number of files and directories across all sessions",
		},
	)

	vfsMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_vfs_mutations_total",
			Help: "Total committed file system mutations",
		},
		[]string{"op"},
	)

	// Terminal metrics
	terminalCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdesk_terminal_commands_total",
			Help: "Total terminal commands executed",
		},
		[]string{"command"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetSessionsActive sets the number of live sessions.
func SetSessionsActive(n int) {
	sessionsActive.Set(float64(n))
}

// RecordSessionReaped records an idle session being closed.
func RecordSessionReaped() {
	sessionsReapedTotal.Inc()
}

// AddWindows adjusts the open window gauge by delta.
func AddWindows(delta int) {
	windowsOpen.Add(float64(delta))
}

// RecordAppLaunch records an application launch.
func RecordAppLaunch(app string) {
	appLaunchesTotal.WithLabelValues(app).Inc()
}

// AddVFSNodes adjusts the file system node gauge by delta.
func AddVFSNodes(delta int) {
	vfsNodes.Add(float64(delta))
}

// RecordVFSMutation records a committed file system mutation.
func RecordVFSMutation(op string) {
	vfsMutationsTotal.WithLabelValues(op).Inc()
}

// RecordTerminalCommand records an executed terminal command. Unknown
// commands share one label to bound cardinality.
func RecordTerminalCommand(command string, known bool) {
	if !known {
		command = "unknown"
	}
	terminalCommandsTotal.WithLabelValues(command).Inc()
}
