package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	bookingsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_confirmed_total",
		Help: "Total number of bookings successfully confirmed",
	})

	bookingsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_rejected_total",
		Help: "Total number of rejected booking attempts",
	}, []string{"reason"})
)

// Metrics records request counts and latencies per route. The route template
// (not the raw path) is used as the label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// CountBookingConfirmed bumps the booking success counter
func CountBookingConfirmed() {
	bookingsConfirmedTotal.Inc()
}

// CountBookingRejected bumps the rejection counter for the given reason
func CountBookingRejected(reason string) {
	bookingsRejectedTotal.WithLabelValues(reason).Inc()
}
