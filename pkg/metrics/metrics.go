package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics counts trips to the order store plus analytics cache outcomes.
type StoreMetrics struct {
	queries     *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_queries_total",
		Help: "Queries issued against the order store, by operation.",
	}, []string{"operation"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_cache_hits_total",
		Help: "Analytics reads served from the cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_cache_misses_total",
		Help: "Analytics reads that fell through to the store.",
	})
	reg.MustRegister(queries, cacheHits, cacheMisses)
	return &StoreMetrics{
		queries:     queries,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
	}
}

// IncQuery increments the store query counter for the named operation.
func (m *StoreMetrics) IncQuery(operation string) {
	if m == nil || m.queries == nil {
		return
	}
	m.queries.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCacheHit increments the cache hit counter.
func (m *StoreMetrics) IncCacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Inc()
}

// IncCacheMiss increments the cache miss counter.
func (m *StoreMetrics) IncCacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
