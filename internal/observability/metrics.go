// Package observability provides logging and metrics helpers.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayRequestLatency records GraphQL round-trip latency by operation.
	GatewayRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wikinitt_gateway_request_latency_seconds",
		Help:    "GraphQL gateway round-trip latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// GatewayErrors counts failed gateway operations by operation and kind
	// (transport vs upstream).
	GatewayErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikinitt_gateway_errors_total",
		Help: "Total number of failed gateway operations",
	}, []string{"operation", "kind"})

	// CacheHits counts query cache hits by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikinitt_cache_hits_total",
		Help: "Total number of query cache hits",
	}, []string{"prefix"})

	// CacheMisses counts query cache misses by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikinitt_cache_misses_total",
		Help: "Total number of query cache misses",
	}, []string{"prefix"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikinitt_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// OptimisticRollbacks counts vote updates that had to be reverted after
	// a failed mutation.
	OptimisticRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wikinitt_optimistic_rollbacks_total",
		Help: "Total number of optimistic updates rolled back",
	}, []string{"entity"})
)

// TrackGatewayOp returns a function that records operation latency when
// called (e.g. defer).
func TrackGatewayOp(operation string) func() {
	start := time.Now()
	return func() {
		GatewayRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
