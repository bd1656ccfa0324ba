package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTP workflow
	OTPIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membership_otp_issued_total",
		Help: "Total number of OTP codes stored and dispatched for delivery.",
	})
	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_otp_verifications_total",
		Help: "Total number of OTP verification attempts by result.",
	}, []string{"result"}) // result: success, not_found, expired, mismatch

	// Applications
	ApplicationsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membership_applications_submitted_total",
		Help: "Total number of membership applications stored.",
	})
	ApplicationsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_applications_refused_total",
		Help: "Total number of refused submissions by reason.",
	}, []string{"reason"}) // reason: duplicate, validation, underage, unverified
	StatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_application_status_changes_total",
		Help: "Total number of admin status changes by target status.",
	}, []string{"status"})

	// Best-effort side channels (OTP delivery, webhook, welcome message, email)
	BackgroundTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_background_tasks_total",
		Help: "Total number of detached side-channel tasks by task and outcome.",
	}, []string{"task", "outcome"}) // outcome: ok, failed, panic
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	HTTPResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "Size of HTTP responses in bytes.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 8),
	}, []string{"method", "path", "status"})
)
