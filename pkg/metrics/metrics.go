package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks dual-write outcomes. The orphaned counter is the one
// operators alert on: every increment is persisted state needing manual
// reconciliation.
type CatalogMetrics struct {
	compensated prometheus.Counter
	orphaned    prometheus.Counter
	writes      *prometheus.CounterVec
}

// NewCatalogMetrics registers catalog write metrics on the provided
// registerer. A nil registerer yields a no-op instance.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	compensated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_partial_writes_compensated_total",
		Help: "Dual writes whose second step failed and were rolled back.",
	})
	orphaned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_partial_writes_orphaned_total",
		Help: "Dual writes whose rollback also failed, leaving dangling rows.",
	})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_writes_total",
		Help: "Catalog write operations by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(compensated, orphaned, writes)
	return &CatalogMetrics{
		compensated: compensated,
		orphaned:    orphaned,
		writes:      writes,
	}
}

func (m *CatalogMetrics) IncCompensated() {
	if m == nil || m.compensated == nil {
		return
	}
	m.compensated.Inc()
}

func (m *CatalogMetrics) IncOrphaned() {
	if m == nil || m.orphaned == nil {
		return
	}
	m.orphaned.Inc()
}

func (m *CatalogMetrics) ObserveWrite(operation, outcome string) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.WithLabelValues(operation, outcome).Inc()
}

// CartMetrics tracks reconciliation activity on the cart engine.
type CartMetrics struct {
	reloads       *prometheus.CounterVec
	cacheFallback prometheus.Counter
}

// NewCartMetrics registers cart sync metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_reloads_total",
		Help: "Full cart reloads by trigger (push, corrective, manual).",
	}, []string{"trigger"})
	cacheFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_cache_fallbacks_total",
		Help: "Cart reads served from the durable fallback cache.",
	})
	reg.MustRegister(reloads, cacheFallback)
	return &CartMetrics{reloads: reloads, cacheFallback: cacheFallback}
}

func (m *CartMetrics) IncReload(trigger string) {
	if m == nil || m.reloads == nil {
		return
	}
	m.reloads.WithLabelValues(trigger).Inc()
}

func (m *CartMetrics) IncCacheFallback() {
	if m == nil || m.cacheFallback == nil {
		return
	}
	m.cacheFallback.Inc()
}
