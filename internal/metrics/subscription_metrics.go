package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SubscriptionMetrics counts outcomes of the subscription save pipeline.
type SubscriptionMetrics interface {
	IncSaved(operation, status string)
	IncRejected(operation, reason string)
	IncExpired(operation string)
}

type subscriptionMetrics struct {
	saved    *prometheus.CounterVec
	rejected *prometheus.CounterVec
	expired  *prometheus.CounterVec
}

func NewSubscriptionMetrics(registry *prometheus.Registry) SubscriptionMetrics {
	factory := promauto.With(registry)

	return &subscriptionMetrics{
		saved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscriptions_saved_total",
				Help: "Subscriptions persisted, by operation and resulting status",
			},
			[]string{"operation", "status"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscriptions_rejected_total",
				Help: "Subscription saves rejected before persisting",
			},
			[]string{"operation", "reason"},
		),
		expired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscriptions_expired_total",
				Help: "Subscriptions moved to expired by the lifecycle step",
			},
			[]string{"operation"},
		),
	}
}

func (m *subscriptionMetrics) IncSaved(operation, status string) {
	m.saved.WithLabelValues(operation, status).Inc()
}

func (m *subscriptionMetrics) IncRejected(operation, reason string) {
	m.rejected.WithLabelValues(operation, reason).Inc()
}

func (m *subscriptionMetrics) IncExpired(operation string) {
	m.expired.WithLabelValues(operation).Inc()
}
