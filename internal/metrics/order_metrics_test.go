package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func gather(t *testing.T, registry *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}
	return byName
}

func TestOrderMetrics_RecordOrderCreated(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordOrderCreated(3)
	m.RecordOrderCreated(1)

	families := gather(t, registry)

	created := families["storefront_orders_created_total"]
	if created == nil {
		t.Fatal("storefront_orders_created_total not registered")
	}
	if got := created.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("expected 2 created orders, got %v", got)
	}

	items := families["storefront_order_items"]
	if items == nil {
		t.Fatal("storefront_order_items not registered")
	}
	if got := items.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("expected 2 histogram samples, got %v", got)
	}
	if got := items.GetMetric()[0].GetHistogram().GetSampleSum(); got != 4 {
		t.Errorf("expected histogram sum 4, got %v", got)
	}
}

func TestOrderMetrics_RecordOrderRejected(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordOrderRejected("insufficient_stock")
	m.RecordOrderRejected("insufficient_stock")
	m.RecordOrderRejected("customer_not_found")

	families := gather(t, registry)
	rejected := families["storefront_orders_rejected_total"]
	if rejected == nil {
		t.Fatal("storefront_orders_rejected_total not registered")
	}

	byReason := make(map[string]float64)
	for _, metric := range rejected.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "reason" {
				byReason[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	if byReason["insufficient_stock"] != 2 {
		t.Errorf("expected 2 insufficient_stock rejections, got %v", byReason["insufficient_stock"])
	}
	if byReason["customer_not_found"] != 1 {
		t.Errorf("expected 1 customer_not_found rejection, got %v", byReason["customer_not_found"])
	}
}

func TestOrderMetrics_RecordStockDecremented(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordStockDecremented([]domain.StockAdjustment{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 3},
	})

	families := gather(t, registry)
	units := families["storefront_stock_decremented_units_total"]
	if units == nil {
		t.Fatal("storefront_stock_decremented_units_total not registered")
	}
	if got := units.GetMetric()[0].GetCounter().GetValue(); got != 5 {
		t.Errorf("expected 5 decremented units, got %v", got)
	}
}

func TestOrderMetrics_RecordCreateDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordCreateDuration(50 * time.Millisecond)

	families := gather(t, registry)
	duration := families["storefront_order_create_duration_seconds"]
	if duration == nil {
		t.Fatal("storefront_order_create_duration_seconds not registered")
	}
	if got := duration.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("expected 1 sample, got %v", got)
	}
}

func TestOrderMetrics_ReuseAlreadyRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordOrderCreated(1)
	second.RecordOrderCreated(1)

	families := gather(t, registry)
	created := families["storefront_orders_created_total"]
	if got := created.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("expected shared counter value 2, got %v", got)
	}
}
