// Package metrics exposes stock book activity as Prometheus metrics.
package metrics

import (
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "stockbook"

// Recorder implements service.Observer on top of Prometheus collectors.
type Recorder struct {
	ordersFinalized prometheus.Counter
	revenue         prometheus.Counter
	unitsSold       *prometheus.CounterVec
	products        prometheus.Gauge
	inventoryValue  prometheus.Gauge
	rejected        *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ordersFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_finalized_total",
			Help:      "Orders committed to the history.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Sum of finalized order totals.",
		}),
		unitsSold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quantity_sold_total",
			Help:      "Quantity sold, by unit kind.",
		}, []string{"unit_kind"}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Products in the catalog.",
		}),
		inventoryValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_value",
			Help:      "Sum of price times quantity over the catalog.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_rejected_total",
			Help:      "Operations that failed, by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.ordersFinalized, r.revenue, r.unitsSold, r.products, r.inventoryValue, r.rejected)
	return r
}

func (r *Recorder) OrderFinalized(order inventory.Order) {
	r.ordersFinalized.Inc()
	r.revenue.Add(toFloat(order.Total))
	for _, item := range order.Items {
		r.unitsSold.WithLabelValues(string(item.UnitKind)).Add(toFloat(item.Quantity))
	}
}

func (r *Recorder) CatalogChanged(products int, valuation decimal.Decimal) {
	r.products.Set(float64(products))
	r.inventoryValue.Set(valuation.InexactFloat64())
}

func (r *Recorder) Rejected(kind string) {
	r.rejected.WithLabelValues(kind).Inc()
}

// toFloat converts a counter increment; counters panic on negative adds.
func toFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	if f < 0 {
		return 0
	}
	return f
}
