// Package metrics defines Prometheus metrics for openseat.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "openseat"

// Check metrics.
var (
	ChecksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checks_total",
		Help:      "Total number of availability checks started.",
	})

	CheckErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_errors_total",
		Help:      "Total number of availability checks that failed.",
	})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_duration_seconds",
		Help:      "Duration of availability checks in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	SectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sections_open",
		Help:      "Number of open, non-excluded sections found by the last check.",
	})
)

// Registration API metrics.
var (
	BannerAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "banner_api_calls_total",
		Help:      "Total number of HTTP requests made to the registration site.",
	})
)

// Notification metrics.
var (
	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of push notifications delivered.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of push notification delivery failures.",
	})
)
