package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shutterbook",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shutterbook",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shutterbook",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Bookings created, by package.",
		},
		[]string{"package"},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shutterbook",
			Subsystem: "bookings",
			Name:      "status_transitions_total",
			Help:      "Admin status transitions, by target status and outcome.",
		},
		[]string{"status", "outcome"},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shutterbook",
			Subsystem: "bookings",
			Name:      "cancelled_total",
			Help:      "Pending bookings cancelled by their owner.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		bookingsCreated,
		statusTransitions,
		bookingsCancelled,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if route == "/metrics" {
			return
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordBookingCreated counts a newly created booking.
func RecordBookingCreated(packageType string) {
	bookingsCreated.WithLabelValues(packageType).Inc()
}

// RecordTransition counts an admin status change attempt.
func RecordTransition(status string, ok bool) {
	outcome := "applied"
	if !ok {
		outcome = "rejected"
	}
	statusTransitions.WithLabelValues(status, outcome).Inc()
}

// RecordCancellation counts an owner cancellation.
func RecordCancellation() {
	bookingsCancelled.Inc()
}
