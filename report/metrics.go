package report

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds benchmark results as prometheus gauges.
type Metrics struct {
	reg     *prometheus.Registry
	latency *prometheus.GaugeVec
	memory  *prometheus.GaugeVec
	objects *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	labels := []string{"structure", "config", "operation"}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "intmapbench",
			Name:      "latency_ns",
			Help:      "Mean latency per operation in nanoseconds.",
		}, labels),
		memory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "intmapbench",
			Name:      "heap_alloc_megabytes",
			Help:      "Live heap after the operation, in MB.",
		}, labels),
		objects: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "intmapbench",
			Name:      "heap_objects",
			Help:      "Live heap objects after the operation.",
		}, labels),
	}
	m.reg.MustRegister(m.latency, m.memory, m.objects)
	return m
}

// Observe sets the gauges of one result.
func (m *Metrics) Observe(r Result) {
	m.latency.WithLabelValues(r.Name, r.Config, r.Operation).Set(float64(r.LatencyNs))
	m.memory.WithLabelValues(r.Name, r.Config, r.Operation).Set(float64(r.MemMB))
	m.objects.WithLabelValues(r.Name, r.Config, r.Operation).Set(float64(r.Objects))
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

// WriteFile writes all gauges in the text exposition format, for the node
// exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.reg), "writing metrics to %s", path)
}
