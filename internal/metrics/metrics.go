// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the task workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accreditrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accreditrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "accreditrack_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Workflow Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accreditrack_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success", "invalid_credentials", "invalid_request"
	)

	TasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accreditrack_tasks_created_total",
			Help: "Total number of benchmark tasks created",
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accreditrack_submissions_total",
			Help: "Artifact submissions by result",
		},
		[]string{"result"}, // "accepted", "rejected", "failed"
	)

	SubmissionBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "accreditrack_submission_bytes",
			Help:    "Size of accepted artifact files in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8), // 16KiB .. 256MiB
		},
	)

	Reviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accreditrack_reviews_total",
			Help: "Completed reviews by outcome",
		},
		[]string{"outcome"},
	)
)

// Submission results.
const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionFailed   = "failed"
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLogin records a login attempt.
func RecordLogin(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

// RecordTaskCreated records a created task.
func RecordTaskCreated() {
	TasksCreated.Inc()
}

// RecordSubmission records a submission attempt. size is only observed for
// accepted submissions.
func RecordSubmission(result string, size int64) {
	Submissions.WithLabelValues(result).Inc()
	if result == SubmissionAccepted {
		SubmissionBytes.Observe(float64(size))
	}
}

// RecordReview records a completed review.
func RecordReview(outcome string) {
	Reviews.WithLabelValues(outcome).Inc()
}
