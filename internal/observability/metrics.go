package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	supportSubmissionsTotal *prometheus.CounterVec
	supportStatusUpdates    *prometheus.CounterVec
	notificationsPublished  *prometheus.CounterVec
	streamClientsActive     prometheus.Gauge
	adminRequestsTotal      *prometheus.CounterVec
	adminLatencySeconds     *prometheus.HistogramVec
	adminErrorsTotal        *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		supportSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_submissions_total",
			Help: "Total number of support request submissions by outcome.",
		}, []string{"outcome"})

		supportStatusUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_status_updates_total",
			Help: "Total number of admin status updates by resulting status.",
		}, []string{"status"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_notifications_published_total",
			Help: "Total number of admin notifications created, by type.",
		}, []string{"type"})

		streamClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_stream_clients",
			Help: "Number of admin dashboards connected to the notification stream.",
		})

		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(
			supportSubmissionsTotal,
			supportStatusUpdates,
			notificationsPublished,
			streamClientsActive,
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
		)
	})
}

// SupportSubmissions exposes the submission outcome counter.
func SupportSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return supportSubmissionsTotal
}

// SupportStatusUpdates exposes the status update counter.
func SupportStatusUpdates() *prometheus.CounterVec {
	RegisterMetrics()
	return supportStatusUpdates
}

// NotificationsPublished exposes the notification counter.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// StreamClientsActive exposes the connected stream client gauge.
func StreamClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return streamClientsActive
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}
