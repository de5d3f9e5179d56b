package replay

import "github.com/cms-cvs-history/trajfilter"

// candidateStats counts the decisions of one candidate's filter and forwards
// them to the runner's collector. It is used by a single goroutine.
type candidateStats struct {
	next      trajfilter.MetricsCollector
	decisions int64
	cached    int64
	last      trajfilter.Outcome
}

func (s *candidateStats) RecordDecision(outcome trajfilter.Outcome, cached bool) {
	s.decisions++
	if cached {
		s.cached++
	}
	s.last = outcome
	s.next.RecordDecision(outcome, cached)
}
