// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefinder_queries_processed_total",
			Help: "Total number of queries processed, by outcome",
		},
		[]string{"outcome"},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefinder_query_failures_total",
			Help: "Total number of failed queries, by error code",
		},
		[]string{"error_code"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "storefinder_query_duration_seconds",
			Help: "End-to-end query processing duration in seconds",
		},
	)

	InferenceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "storefinder_inference_call_duration_seconds",
			Help: "Duration of inference backend calls in seconds",
		},
		[]string{"call"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefinder_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefinder_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)
)
