package metrics

import "github.com/prometheus/client_golang/prometheus"

// DependencyMetrics implements resilience.Observer for calls to NATS and the
// stores.
type DependencyMetrics struct {
	service string

	retriesTotal *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

func NewDependencyMetrics(registry prometheus.Registerer, service string) *DependencyMetrics {
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dependency",
			Name:      "retries_total",
			Help:      "Retried dependency calls by operation.",
		},
		[]string{"service", "operation"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dependency",
			Name:      "breaker_open",
			Help:      "1 while the operation's circuit breaker is open or half-open.",
		},
		[]string{"service", "operation"},
	)
	registry.MustRegister(retriesTotal, breakerState)

	return &DependencyMetrics{
		service:      service,
		retriesTotal: retriesTotal,
		breakerState: breakerState,
	}
}

func (m *DependencyMetrics) RecordRetry(operation string) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *DependencyMetrics) RecordBreakerState(operation, state string) {
	v := 1.0
	if state == "closed" {
		v = 0
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(v)
}
