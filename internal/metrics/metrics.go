// Package metrics holds the Prometheus instruments used across the service.
// All collectors are registered with the global registry, so serving
// promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logolist_provider_requests_total",
			Help: "Provider lookups by provider and outcome (ok, error, timeout, open).",
		}, []string{"provider", "outcome"})

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logolist_provider_latency_seconds",
			Help:    "Provider lookup latency.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 3, 5, 10, 20},
		}, []string{"provider"})

	ProviderBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logolist_provider_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open).",
		}, []string{"provider"})

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logolist_search_results",
			Help:    "Number of records returned per resolved search.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		})

	SearchFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logolist_search_fallback_total",
			Help: "Searches answered only by the synthesized favicon fallback.",
		})

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logolist_store_errors_total",
			Help: "Store failures absorbed by the search and registration paths.",
		}, []string{"operation"})

	BackgroundTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logolist_background_tasks_total",
			Help: "Background tasks by outcome (ok, error, panic, dropped).",
		}, []string{"outcome"})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logolist_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logolist_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderBreakerState,
		SearchResults,
		SearchFallbackTotal,
		StoreErrorsTotal,
		BackgroundTasksTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
