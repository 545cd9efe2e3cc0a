package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCatalogMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)

	m.IncCompensated()
	m.IncOrphaned()
	m.IncOrphaned()
	m.ObserveWrite("create", "success")

	if got := testutil.ToFloat64(m.compensated); got != 1 {
		t.Fatalf("compensated = %v", got)
	}
	if got := testutil.ToFloat64(m.orphaned); got != 2 {
		t.Fatalf("orphaned = %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewCatalogMetrics(nil)
	m.IncCompensated()
	m.IncOrphaned()
	m.ObserveWrite("delete", "success")

	c := NewCartMetrics(nil)
	c.IncReload("push")
	c.IncCacheFallback()
}
