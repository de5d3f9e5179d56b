// Package promcollector exports filter decisions and replay runs as Prometheus metrics.
package promcollector

import (
	"strconv"
	"time"

	"github.com/cms-cvs-history/trajfilter"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements trajfilter.MetricsCollector.
type Collector struct {
	decisions  *prometheus.CounterVec
	candidates *prometheus.CounterVec
	replays    prometheus.Histogram
}

var _ trajfilter.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics on reg under namespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Filter decisions by outcome and whether the memo served them.",
		}, []string{"outcome", "cached"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replay_candidates_total",
			Help:      "Replayed candidates by final verdict.",
		}, []string{"verdict"}),
		replays: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "replay_duration_seconds",
			Help:      "Wall time of replay runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	for _, m := range []prometheus.Collector{c.decisions, c.candidates, c.replays} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	// Pre-create the series so dashboards see zeros instead of gaps.
	for _, o := range trajfilter.Outcomes() {
		for _, cached := range []bool{false, true} {
			c.decisions.WithLabelValues(o.String(), strconv.FormatBool(cached))
		}
	}
	c.candidates.WithLabelValues("accepted")
	c.candidates.WithLabelValues("exhausted")
	return c, nil
}

// RecordDecision implements trajfilter.MetricsCollector.
func (c *Collector) RecordDecision(outcome trajfilter.Outcome, cached bool) {
	c.decisions.WithLabelValues(outcome.String(), strconv.FormatBool(cached)).Inc()
}

// ObserveReplay records a finished replay run.
func (c *Collector) ObserveReplay(accepted, exhausted int, elapsed time.Duration) {
	c.candidates.WithLabelValues("accepted").Add(float64(accepted))
	c.candidates.WithLabelValues("exhausted").Add(float64(exhausted))
	c.replays.Observe(elapsed.Seconds())
}
