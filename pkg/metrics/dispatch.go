package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records per-warehouse allocation outcomes.
type DispatchMetrics struct {
	assigned  *prometheus.CounterVec
	postponed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewDispatchMetrics registers allocation metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	assigned := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_orders_assigned_total",
		Help: "Orders assigned to agents during allocation runs.",
	}, []string{"warehouse"})
	postponed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_orders_postponed_total",
		Help: "Orders left unassigned at the end of allocation runs.",
	}, []string{"warehouse"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_warehouse_run_seconds",
		Help:    "Duration of per-warehouse allocation passes.",
		Buckets: prometheus.DefBuckets,
	}, []string{"warehouse"})
	reg.MustRegister(assigned, postponed, duration)
	return &DispatchMetrics{
		assigned:  assigned,
		postponed: postponed,
		duration:  duration,
	}
}

// ObserveWarehouseRun records the outcome of one warehouse allocation pass.
func (d *DispatchMetrics) ObserveWarehouseRun(warehouse string, assigned, postponed int, duration time.Duration) {
	if d == nil || d.assigned == nil {
		return
	}
	label := normalizeLabel(warehouse)
	d.assigned.WithLabelValues(label).Add(float64(assigned))
	d.postponed.WithLabelValues(label).Add(float64(postponed))
	d.duration.WithLabelValues(label).Observe(duration.Seconds())
}
