package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Login and registration counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_register_total",
			Help: "Total number of tenant registrations",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // type can be "missing_token", "invalid_token", "forbidden" etc.
	)

	PaymentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_payments_total",
			Help: "Total number of payment status changes",
		},
		[]string{"status"},
	)

	WebhookEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_webhook_events_total",
			Help: "Total number of payment webhook events by type and outcome",
		},
		[]string{"type", "outcome"}, // outcome can be "applied", "ignored", "unmatched", "rejected"
	)

	BookingCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_bookings_total",
			Help: "Total number of booking status changes",
		},
		[]string{"status"},
	)

	ServiceRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_service_requests_total",
			Help: "Total number of service request status changes",
		},
		[]string{"status"},
	)

	OverdueMarkedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_overdue_marked_total",
			Help: "Total number of payments marked overdue",
		},
	)

	CacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_cache_lookups_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"key", "result"}, // result can be "hit", "miss", "error"
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_info",
			Help: "Information about the tenant portal service",
		},
		[]string{"version"},
	)
)

// Version is reported by the info gauge and the index endpoint
const Version = "1.0.0"

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(PaymentCounter)
	prometheus.MustRegister(WebhookEventCounter)
	prometheus.MustRegister(BookingCounter)
	prometheus.MustRegister(ServiceRequestCounter)
	prometheus.MustRegister(OverdueMarkedCounter)
	prometheus.MustRegister(CacheCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": Version}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordPayment records a payment status change
func RecordPayment(status string) {
	PaymentCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordWebhookEvent records the outcome of a payment webhook
func RecordWebhookEvent(eventType, outcome string) {
	WebhookEventCounter.With(prometheus.Labels{"type": eventType, "outcome": outcome}).Inc()
}

// RecordBooking records a booking status change
func RecordBooking(status string) {
	BookingCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordServiceRequest records a service request status change
func RecordServiceRequest(status string) {
	ServiceRequestCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordOverdue adds n payments to the overdue counter
func RecordOverdue(n int) {
	OverdueMarkedCounter.Add(float64(n))
}

// RecordCacheLookup records a cache hit, miss or error
func RecordCacheLookup(key, result string) {
	CacheCounter.With(prometheus.Labels{"key": key, "result": result}).Inc()
}
