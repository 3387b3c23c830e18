// Package telemetry exposes Prometheus collectors for the qbridge boundary:
// live handle counts per kind, boundary call outcomes, and pass stage runs.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qbridge"

// Handle kinds used as the "kind" label.
const (
	KindCircuit    = "circuit"
	KindTranspiled = "transpiled"
)

// Metrics holds the collectors of one boundary instance.
type Metrics struct {
	liveHandles *prometheus.GaugeVec
	calls       *prometheus.CounterVec
	pipelines   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is what tests running several boundaries
// side by side want.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		liveHandles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_handles",
			Help:      "Number of handles currently allocated, by kind.",
		}, []string{"kind"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Boundary calls by operation and resulting status.",
		}, []string{"operation", "status"}),
		pipelines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pass pipeline runs by pipeline and outcome.",
		}, []string{"pipeline", "outcome"}),
	}

	if reg != nil {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetLive records the number of live handles of kind.
func (m *Metrics) SetLive(kind string, n int) {
	if m == nil {
		return
	}
	m.liveHandles.WithLabelValues(kind).Set(float64(n))
}

// ObserveCall counts one boundary call with its status name.
func (m *Metrics) ObserveCall(operation, status string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(operation, status).Inc()
}

// ObservePipeline counts one pipeline run.
func (m *Metrics) ObservePipeline(pipeline string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.pipelines.WithLabelValues(pipeline, outcome).Inc()
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.liveHandles.Describe(ch)
	m.calls.Describe(ch)
	m.pipelines.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.liveHandles.Collect(ch)
	m.calls.Collect(ch)
	m.pipelines.Collect(ch)
}
