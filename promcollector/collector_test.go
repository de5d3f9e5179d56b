package promcollector

import (
	"testing"
	"time"

	"github.com/cms-cvs-history/trajfilter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "trajfilter")
	require.NoError(t, err)

	c.RecordDecision(trajfilter.OutcomeAboveThreshold, false)
	c.RecordDecision(trajfilter.OutcomeAboveThreshold, true)
	c.RecordDecision(trajfilter.OutcomeBelowThreshold, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("above_threshold", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("above_threshold", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("below_threshold", "false")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.decisions.WithLabelValues("below_min_hits", "false")))

	assert.Equal(t, 2*len(trajfilter.Outcomes()), testutil.CollectAndCount(c.decisions))
}

func TestCollector_ExposesNamespacedSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "tracking")
	require.NoError(t, err)

	c.RecordDecision(trajfilter.OutcomeDegenerateMomentum, false)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "tracking_decisions_total")
	assert.Contains(t, names, "tracking_replay_candidates_total")
	assert.Contains(t, names, "tracking_replay_duration_seconds")
}

func TestCollector_ObserveReplay(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "trajfilter")
	require.NoError(t, err)

	c.ObserveReplay(3, 7, 250*time.Millisecond)
	c.ObserveReplay(1, 0, time.Second)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.candidates.WithLabelValues("accepted")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.candidates.WithLabelValues("exhausted")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.replays))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "trajfilter")
	require.NoError(t, err)

	_, err = New(reg, "trajfilter")
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestCollector_WiredIntoFilter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "trajfilter")
	require.NoError(t, err)

	cfg := trajfilter.DefaultConfig(1.0)
	cfg.MinHits = 3
	f, err := trajfilter.New(cfg, trajfilter.WithMetricsCollector(c))
	require.NoError(t, err)

	d := f.JudgeState(0, nil)
	assert.Equal(t, trajfilter.OutcomeBelowMinHits, d.Outcome)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("below_min_hits", "false")))
}
