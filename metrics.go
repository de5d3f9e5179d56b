package trajfilter

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting filter metrics.
// Implement this interface to integrate with monitoring systems; the
// promcollector package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordDecision is called after every evaluation. cached is true when the
	// decision was served from the filter's memo.
	RecordDecision(outcome Outcome, cached bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDecision(Outcome, bool) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and for tests without external dependencies.
type BasicMetricsCollector struct {
	Decisions atomic.Int64
	Continued atomic.Int64
	Cached    atomic.Int64
	outcomes  [numOutcomes]atomic.Int64
}

// RecordDecision implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecision(outcome Outcome, cached bool) {
	b.Decisions.Add(1)
	if outcome.Continue() {
		b.Continued.Add(1)
	}
	if cached {
		b.Cached.Add(1)
	}
	if outcome < numOutcomes {
		b.outcomes[outcome].Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		Decisions: b.Decisions.Load(),
		Continued: b.Continued.Load(),
		Cached:    b.Cached.Load(),
		Outcomes:  make(map[Outcome]int64, numOutcomes),
	}
	for i := range b.outcomes {
		if n := b.outcomes[i].Load(); n > 0 {
			stats.Outcomes[Outcome(i)] = n
		}
	}
	return stats
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Decisions int64
	Continued int64
	Cached    int64
	Outcomes  map[Outcome]int64
}

// CacheHitRatio returns the fraction of decisions served from the memo.
func (s BasicMetricsStats) CacheHitRatio() float64 {
	if s.Decisions == 0 {
		return 0
	}
	return float64(s.Cached) / float64(s.Decisions)
}
