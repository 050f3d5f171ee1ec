// Package metrics defines Prometheus metrics for listing-notifier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ln"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)

// Pass metrics.
var (
	PassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passes_total",
		Help:      "Total number of passes started, by trigger.",
	}, []string{"trigger"})

	PassErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pass_errors_total",
		Help:      "Total number of passes that aborted with an error, by stage.",
	}, []string{"stage"})

	PassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pass_duration_seconds",
		Help:      "Duration of a single registration pass in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Fetch and reconciliation metrics.
var (
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of upstream feed requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ListingsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_fetched_total",
		Help:      "Total number of listings with an identifier returned by the feed.",
	})

	UnseenListingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unseen_listings_total",
		Help:      "Total number of listings reported as unseen.",
	})

	SeenSetSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "seen_set_size",
		Help:      "Number of identifiers in the seen-set after the last write.",
	})

	SeenSetResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seen_set_resets_total",
		Help:      "Total number of seen-set resets.",
	})
)

// Notification metrics.
var (
	MessagesSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages delivered to the channel, by kind.",
	}, []string{"kind"})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of a single channel send in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)
