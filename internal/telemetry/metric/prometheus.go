package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Leak engine metrics, labelled by pattern name.
	LeakItems       *prometheus.GaugeVec
	LeakEstimatedMB *prometheus.GaugeVec
	LeakTicks       *prometheus.CounterVec

	// Snapshot metrics.
	SnapshotsTotal    prometheus.Counter
	SnapshotFailures  prometheus.Counter
	SnapshotLastBytes prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		LeakItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "leaklab",
			Name:      "leak_items",
			Help:      "Number of items currently held by a leak engine.",
		}, []string{"pattern"}),
		LeakEstimatedMB: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "leaklab",
			Name:      "leak_estimated_mb",
			Help:      "Estimated memory held by a leak engine in megabytes.",
		}, []string{"pattern"}),
		LeakTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leaklab",
			Name:      "leak_ticks_total",
			Help:      "Accumulation ticks executed per leak engine.",
		}, []string{"pattern"}),
		SnapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leaklab",
			Name:      "snapshots_total",
			Help:      "Heap snapshots written successfully.",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leaklab",
			Name:      "snapshot_failures_total",
			Help:      "Heap snapshot attempts that failed.",
		}),
		SnapshotLastBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leaklab",
			Name:      "snapshot_last_size_bytes",
			Help:      "Size of the most recent heap snapshot file.",
		}),
	}

	reg.MustRegister(
		r.LeakItems,
		r.LeakEstimatedMB,
		r.LeakTicks,
		r.SnapshotsTotal,
		r.SnapshotFailures,
		r.SnapshotLastBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide metrics registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler serving the registry in Prometheus format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Global().registry, promhttp.HandlerOpts{})
}

// ObserveLeak records the current state of one leak engine.
func (r *Registry) ObserveLeak(pattern string, count int, estimatedMB float64) {
	r.LeakItems.WithLabelValues(pattern).Set(float64(count))
	r.LeakEstimatedMB.WithLabelValues(pattern).Set(estimatedMB)
}

// ObserveSnapshot records one successful snapshot write.
func (r *Registry) ObserveSnapshot(sizeBytes int64) {
	r.SnapshotsTotal.Inc()
	if sizeBytes > 0 {
		r.SnapshotLastBytes.Set(float64(sizeBytes))
	}
}
