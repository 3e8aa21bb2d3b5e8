package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec
	RateLimitedTotal    prometheus.Counter

	// Datastore Metrics
	DatastoreQueriesTotal  *prometheus.CounterVec
	DatastoreQueryDuration *prometheus.HistogramVec

	// Application Metrics
	SchoolsCreatedTotal *prometheus.CounterVec
	SchoolListingsTotal *prometheus.CounterVec
	SchoolsRanked       prometheus.Histogram
	ValidationErrors    *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg
// main passes prometheus.DefaultRegisterer, tests pass a fresh registry
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "http_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		DatastoreQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datastore_queries_total",
				Help: "Total number of datastore queries",
			},
			[]string{"operation", "status"},
		),

		DatastoreQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datastore_query_duration_seconds",
				Help:    "Datastore query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		SchoolsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schools_created_total",
				Help: "Total number of add-school requests by result",
			},
			[]string{"result"},
		),

		SchoolListingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "school_listings_total",
				Help: "Total number of list-schools requests by result",
			},
			[]string{"result"},
		),

		SchoolsRanked: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "schools_ranked_per_listing",
				Help:    "Number of schools ranked by distance per listing",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "validation_errors_total",
				Help: "Total number of rejected requests by operation and field",
			},
			[]string{"operation", "field"},
		),
	}
}
