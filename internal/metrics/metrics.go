package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 20},
	}, []string{"method", "path"})

	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "upstream_requests_total",
		Help:      "Total requests to the movie metadata API by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "upstream_request_duration_seconds",
		Help:      "Movie metadata API request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	AggregationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of a full search aggregation by kind.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"kind"})

	AggregationResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "aggregation_results",
		Help:      "Number of records returned by a search aggregation.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"kind"})

	SearchesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "catalog",
		Name:      "searches_in_flight",
		Help:      "Number of search aggregations currently running.",
	})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "cache_hits_total",
		Help:      "Total number of movie detail cache hits.",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "cache_misses_total",
		Help:      "Total number of movie detail cache misses.",
	})

	CollectionOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "collection_operations_total",
		Help:      "Total collection store operations by operation and result.",
	}, []string{"op", "result"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		AggregationDuration,
		AggregationResults,
		SearchesInFlight,
		CacheHitsTotal,
		CacheMissesTotal,
		CollectionOpsTotal,
	)
}
