// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reaksi"

// Evaluation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

// Submission results.
const (
	SubmissionAccepted    = "accepted"
	SubmissionInvalid     = "invalid"
	SubmissionInFlight    = "in_flight"
	SubmissionRateLimited = "rate_limited"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	evaluations          *prometheus.CounterVec
	evaluationDuration   prometheus.Histogram
	submissions          *prometheus.CounterVec
	overlappingParticles prometheus.Counter
	placedParticles      prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_evaluations_total",
			Help:      "AI evaluations by outcome.",
		}, []string{"outcome"}),
		evaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_evaluation_duration_seconds",
			Help:      "Duration of the outbound AI evaluation call.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission attempts by result.",
		}, []string{"result"}),
		overlappingParticles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_overlapping_particles_total",
			Help:      "Particles placed without a free spot after exhausting the attempt bound.",
		}),
		placedParticles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_particles_total",
			Help:      "Particles placed by the layout generator.",
		}),
	}
}

// ObserveEvaluation records one evaluation call.
func (m *Metrics) ObserveEvaluation(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(outcome).Inc()
	m.evaluationDuration.Observe(seconds)
}

// CountSubmission records one submission attempt.
func (m *Metrics) CountSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveLayout records the size of a generated layout and how many particles overlap.
func (m *Metrics) ObserveLayout(placed, overlapping int) {
	if m == nil {
		return
	}
	m.placedParticles.Add(float64(placed))
	m.overlappingParticles.Add(float64(overlapping))
}
