package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

// AnalysisMetrics implements ports.AnalysisObserver. It records codes and counts
// only, never transcript content.
type AnalysisMetrics struct {
	service string

	analysesTotal  *prometheus.CounterVec
	diagnosisTotal *prometheus.CounterVec
	utterances     *prometheus.HistogramVec
	vitalAlerts    *prometheus.CounterVec
}

func NewAnalysisMetrics(registry prometheus.Registerer, service string) *AnalysisMetrics {
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Transcript analyses by outcome and severity.",
		},
		[]string{"service", "outcome", "severity"},
	)
	diagnosisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "diagnosis_total",
			Help:      "Successful analyses by CID-10 code.",
		},
		[]string{"service", "code"},
	)
	utterances := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "utterances",
			Help:      "Distribution of diarized utterances per transcript.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		},
		[]string{"service"},
	)
	vitalAlerts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "vital_alerts_total",
			Help:      "Out-of-range vital signs detected, by vital.",
		},
		[]string{"service", "vital"},
	)

	registry.MustRegister(analysesTotal, diagnosisTotal, utterances, vitalAlerts)

	return &AnalysisMetrics{
		service:        service,
		analysesTotal:  analysesTotal,
		diagnosisTotal: diagnosisTotal,
		utterances:     utterances,
		vitalAlerts:    vitalAlerts,
	}
}

func (m *AnalysisMetrics) ObserveAnalysis(result domain.ProcessingResult) {
	if !result.Success || result.Record == nil {
		m.analysesTotal.WithLabelValues(m.service, "rejected", "none").Inc()
		return
	}

	m.analysesTotal.WithLabelValues(m.service, "success", string(result.Record.Severity)).Inc()
	m.diagnosisTotal.WithLabelValues(m.service, result.Record.Diagnosis.Code).Inc()
	if result.Metadata != nil {
		m.utterances.WithLabelValues(m.service).Observe(float64(result.Metadata.UtteranceCount))
	}
	for _, alert := range result.Record.Vitals.Alerts() {
		m.vitalAlerts.WithLabelValues(m.service, alert.Vital).Inc()
	}
}
