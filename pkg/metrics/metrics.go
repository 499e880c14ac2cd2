package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_http_requests_total",
		Help: "HTTP requests processed, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lms_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lms_db_query_duration_seconds",
		Help:    "Database query latency by operation and table.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "table"})

	certificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_certificates_issued_total",
		Help: "Certificates created by the completion pipeline.",
	})

	badgesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_badges_awarded_total",
		Help: "Badges granted by the cascade evaluator.",
	}, []string{"badge"})

	quizSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_quiz_submissions_total",
		Help: "Closed quiz attempts by outcome.",
	}, []string{"outcome"})

	conflictsIgnored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_conflicts_ignored_total",
		Help: "Uniqueness conflicts resolved as already-exists.",
	}, []string{"resource"})

	panicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_http_panics_recovered_total",
		Help: "Handler panics turned into 500 responses, by route.",
	}, []string{"route"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_notifications_total",
		Help: "Best-effort notifications by channel, kind and outcome.",
	}, []string{"channel", "kind", "outcome"})
)

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery observes a single gorm statement.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// CertificateIssued counts a newly created certificate.
func CertificateIssued() {
	certificatesIssued.Inc()
}

// BadgeAwarded counts a newly granted badge.
func BadgeAwarded(name string) {
	badgesAwarded.WithLabelValues(name).Inc()
}

// QuizSubmitted counts a closed attempt.
func QuizSubmitted(passed bool) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	quizSubmissions.WithLabelValues(outcome).Inc()
}

// ConflictIgnored counts a uniqueness race that was folded into "already exists".
func ConflictIgnored(resource string) {
	conflictsIgnored.WithLabelValues(resource).Inc()
}

// Notification counts a notification attempt.
func Notification(channel, kind string, delivered bool) {
	outcome := "failed"
	if delivered {
		outcome = "delivered"
	}
	notifications.WithLabelValues(channel, kind, outcome).Inc()
}

// PanicRecovered counts a handler panic caught by the recovery middleware.
func PanicRecovered(route string) {
	if route == "" {
		route = "unmatched"
	}
	panicsRecovered.WithLabelValues(route).Inc()
}
