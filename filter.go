package trajfilter

import (
	"sync"

	"github.com/cms-cvs-history/trajfilter/state"
	"github.com/cms-cvs-history/trajfilter/trajectory"
)

// FilterName identifies the filter in builder configurations and logs.
const FilterName = "ThresholdPtTrajectoryFilter"

// Candidate is the view of a trajectory the filter needs. Both
// *trajectory.Trajectory and trajectory.TempTrajectory satisfy it.
type Candidate interface {
	FoundHits() int
	LastMeasurement() trajectory.Measurement
}

var (
	_ Candidate = (*trajectory.Trajectory)(nil)
	_ Candidate = trajectory.TempTrajectory{}
)

// ThresholdPtFilter stops building a candidate once its transverse momentum is
// no longer above the threshold at the configured confidence, and accepts exactly
// the candidates it stops.
//
// A builder asks ToBeContinued and QualityFilter for the same state back to back.
// The filter remembers the last decision keyed by the momentum vector so that the
// second question of a pair costs nothing. The memory belongs to the instance: a
// filter must not interleave evaluations of different candidates between the two
// questions of a pair. Give each concurrently explored candidate its own filter,
// or use Pair, which answers both questions from one evaluation without the memo.
type ThresholdPtFilter struct {
	cfg     Config
	logger  *Logger
	metrics MetricsCollector

	mu   sync.Mutex
	memo memo
}

// New creates a filter for cfg.
func New(cfg Config, optFns ...Option) (*ThresholdPtFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	return &ThresholdPtFilter{
		cfg:     cfg,
		logger:  o.logger.WithFilter(FilterName),
		metrics: o.metricsCollector,
	}, nil
}

// Name returns FilterName.
func (f *ThresholdPtFilter) Name() string { return FilterName }

// Config returns the filter's policy.
func (f *ThresholdPtFilter) Config() Config { return f.cfg }

// QualityFilter reports whether c should be kept as a final result.
func (f *ThresholdPtFilter) QualityFilter(c Candidate) bool {
	return f.Evaluate(c).Accept()
}

// ToBeContinued reports whether c should be extended further.
func (f *ThresholdPtFilter) ToBeContinued(c Candidate) bool {
	return f.Evaluate(c).Continue()
}

// Evaluate returns the decision for c, reusing the previous decision when the
// last measurement's momentum is identical to the previously evaluated one.
func (f *ThresholdPtFilter) Evaluate(c Candidate) Decision {
	hits := c.FoundHits()

	f.mu.Lock()
	if hits < f.cfg.MinHits {
		// Not keyed by momentum, so nothing to remember.
		f.memo.reset()
		f.mu.Unlock()
		d := Decision{Outcome: OutcomeBelowMinHits}
		f.record(d, false)
		return d
	}

	m := c.LastMeasurement()
	st := &m.UpdatedState
	if d, ok := f.memo.lookup(st.Momentum); ok {
		f.mu.Unlock()
		f.record(d, true)
		return d
	}

	d := f.cfg.judgeMomentum(st)
	f.memo.store(st.Momentum, d)
	f.mu.Unlock()

	f.record(d, false)
	return d
}

// Pair evaluates c once and answers both questions. It neither reads nor
// updates the memo, so it is safe to call for any candidate in any order.
func (f *ThresholdPtFilter) Pair(c Candidate) (accept, cont bool) {
	m := c.LastMeasurement()
	d := f.JudgeState(c.FoundHits(), &m.UpdatedState)
	return d.Accept(), d.Continue()
}

// JudgeState applies the cut to a bare state without touching the memo.
func (f *ThresholdPtFilter) JudgeState(hits int, st *state.FreeState) Decision {
	d := f.cfg.Judge(hits, st)
	f.record(d, false)
	return d
}

// Reset forgets the remembered decision.
func (f *ThresholdPtFilter) Reset() {
	f.mu.Lock()
	f.memo.reset()
	f.mu.Unlock()
}

func (f *ThresholdPtFilter) record(d Decision, cached bool) {
	f.metrics.RecordDecision(d.Outcome, cached)
	f.logger.LogDecision(d, cached)
}
