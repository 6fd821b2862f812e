package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AdmissionMetrics counts admission-control decisions per rule.
type AdmissionMetrics interface {
	ObserveDecision(rule, conclusion, mode string)
}

type admissionMetrics struct {
	decisions *prometheus.CounterVec
}

func NewAdmissionMetrics(registry *prometheus.Registry) AdmissionMetrics {
	return &admissionMetrics{
		decisions: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "admission_decisions_total",
				Help: "Admission-control decisions by deciding rule, conclusion and mode",
			},
			[]string{"rule", "conclusion", "mode"},
		),
	}
}

func (m *admissionMetrics) ObserveDecision(rule, conclusion, mode string) {
	m.decisions.WithLabelValues(rule, conclusion, mode).Inc()
}
