// Package metrics provides Prometheus metrics for the matching service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Ranking engine
	RankingRequestsTotal *prometheus.CounterVec
	RankingDuration      *prometheus.HistogramVec
	RankingPoolSize      *prometheus.HistogramVec

	// Pool cache
	CacheRequestsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on reg.
// Pass prometheus.DefaultRegisterer in production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.RankingRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_ranking_requests_total",
			Help: "Total number of ranking operations",
		},
		[]string{"operation", "status"},
	)

	m.RankingDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobmatch_ranking_duration_seconds",
			Help:    "Duration of ranking operations in seconds, including pool fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	m.RankingPoolSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobmatch_ranking_pool_size",
			Help:    "Number of candidate entities scored per ranking operation",
			Buckets: []float64{0, 1, 10, 50, 100, 200, 500, 1000},
		},
		[]string{"operation"},
	)

	m.CacheRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_cache_requests_total",
			Help: "Pool cache lookups by pool and result",
		},
		[]string{"pool", "result"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobmatch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	return m
}

// ObserveRanking records one ranking operation.
func (m *Metrics) ObserveRanking(operation, status string, poolSize int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RankingRequestsTotal.WithLabelValues(operation, status).Inc()
	m.RankingDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.RankingPoolSize.WithLabelValues(operation).Observe(float64(poolSize))
}

// ObserveCache records a pool cache lookup.
func (m *Metrics) ObserveCache(pool string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(pool, result).Inc()
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
