package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alcyxob/neurofeedback-app/internal/registry"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"

	codeNone = "none"
)

// Metrics owns a private prometheus registry so several instances can coexist.
type Metrics struct {
	reg        *prometheus.Registry
	operations *prometheus.CounterVec
	programs   *prometheus.GaugeVec
	enrolled   *prometheus.GaugeVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neurofeedback",
			Name:      "registry_operations_total",
			Help:      "Registry operations by name, result and error code.",
		}, []string{"operation", "result", "code"}),
		programs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neurofeedback",
			Name:      "programs",
			Help:      "Programs in the registry by state.",
		}, []string{"state"}),
		enrolled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neurofeedback",
			Name:      "enrollments",
			Help:      "Enrollments in the registry by state.",
		}, []string{"state"}),
	}
	m.reg.MustRegister(m.operations, m.programs, m.enrolled)
	return m
}

// ObserveOperation counts one registry call. A nil err counts as success.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if err == nil {
		m.operations.WithLabelValues(operation, ResultSuccess, codeNone).Inc()
		return
	}
	code := codeNone
	if c := registry.CodeOf(err); c != 0 {
		code = http.StatusText(c)
	}
	m.operations.WithLabelValues(operation, ResultError, code).Inc()
}

// SetStats publishes a registry snapshot.
func (m *Metrics) SetStats(s registry.Stats) {
	m.programs.WithLabelValues("active").Set(float64(s.ActivePrograms))
	m.programs.WithLabelValues("inactive").Set(float64(s.Programs - s.ActivePrograms))
	m.enrolled.WithLabelValues("completed").Set(float64(s.CompletedEnrollments))
	m.enrolled.WithLabelValues("in_progress").Set(float64(s.Enrollments - s.CompletedEnrollments))
}

// Handler serves the collectors in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
