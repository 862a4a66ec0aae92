package metrics_test

import (
	"testing"

	"github.com/myrjola/reaksi/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveEvaluation(metrics.OutcomeOK, 1.5)
	m.ObserveEvaluation(metrics.OutcomeFallback, 0.1)
	m.ObserveEvaluation(metrics.OutcomeFallback, 0.1)
	m.CountSubmission(metrics.SubmissionAccepted)
	m.ObserveLayout(30, 2)
	m.ObserveLayout(10, 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				key := family.GetName()
				for _, label := range metric.GetLabel() {
					key += "/" + label.GetValue()
				}
				values[key] = c.GetValue()
			}
		}
	}

	require.InDelta(t, 1.0, values["reaksi_ai_evaluations_total/ok"], 1e-9)
	require.InDelta(t, 2.0, values["reaksi_ai_evaluations_total/fallback"], 1e-9)
	require.InDelta(t, 1.0, values["reaksi_submissions_total/accepted"], 1e-9)
	require.InDelta(t, 40.0, values["reaksi_layout_particles_total"], 1e-9)
	require.InDelta(t, 2.0, values["reaksi_layout_overlapping_particles_total"], 1e-9)
	count, err := testutil.GatherAndCount(reg, "reaksi_ai_evaluation_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMetrics_nilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveEvaluation(metrics.OutcomeOK, 1)
		m.CountSubmission(metrics.SubmissionInvalid)
		m.ObserveLayout(1, 1)
	})
}
