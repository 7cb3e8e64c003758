// Package metrics defines Prometheus metrics for stock-tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stk"

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
		Help:      "1 if the last /healthz probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded.",
	})
)

// Polling cycle metrics.
var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycles_total",
		Help:      "Total number of polling cycles by outcome.",
	}, []string{"store", "outcome"})

	CycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cycle_duration_seconds",
		Help:      "Duration of polling cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"store"})

	QueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_errors_total",
		Help:      "Total number of failed storefront queries.",
	}, []string{"store", "query"})
)

// Evaluation metrics.
var (
	ItemsEvaluatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_evaluated_total",
		Help:      "Total number of items run through the evaluator.",
	}, []string{"store"})

	StockNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_notifications_total",
		Help:      "Total number of stock notifications dispatched, by buyable state.",
	}, []string{"store", "buyable"})

	SuppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suppressed_notifications_total",
		Help:      "Total number of stock notifications suppressed by a cooldown.",
	}, []string{"store"})

	CooldownResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cooldown_resets_total",
		Help:      "Total number of stale not-buyable cooldowns cleared on becoming buyable.",
	}, []string{"store"})

	PriceChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_changes_total",
		Help:      "Total number of price changes detected.",
	}, []string{"store"})

	CooldownsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cooldowns_active",
		Help:      "Cooldown records currently held, expired ones included until pruned.",
	}, []string{"store", "domain"})

	PersistenceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_errors_total",
		Help:      "Total number of failed price/cookie store operations.",
	}, []string{"op"})
)

// Basket automation metrics.
var (
	BasketCookiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "basket_cookies_created_total",
		Help:      "Total number of basket cookies created.",
	}, []string{"store"})

	BasketFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "basket_failures_total",
		Help:      "Total number of failed basket cookie attempts.",
	}, []string{"store"})
)

// Storefront API metrics.
var (
	StorefrontRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storefront_requests_total",
		Help:      "Total number of storefront GraphQL requests by operation and status.",
	}, []string{"operation", "status"})

	StorefrontRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storefront_request_duration_seconds",
		Help:      "Duration of storefront GraphQL requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	RateLimitHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Total number of times the storefront answered 429.",
	}, []string{"store"})
)

// Notification metrics.
var (
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications delivered, by notifier and kind.",
	}, []string{"notifier", "kind"})

	NotificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures, by notifier and kind.",
	}, []string{"notifier", "kind"})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of outbound notification requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)
