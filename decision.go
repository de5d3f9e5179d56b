package trajfilter

// Outcome classifies how a decision was reached.
type Outcome uint8

const (
	// OutcomeBelowMinHits means too few hits to trust the momentum; keep building.
	OutcomeBelowMinHits Outcome = iota
	// OutcomeDegenerateMomentum means pT is below MinPt; stop.
	OutcomeDegenerateMomentum
	// OutcomeUnstableError means the 1/pT error exceeds MaxInvPtError; stop.
	OutcomeUnstableError
	// OutcomeAboveThreshold means pT is above threshold at the configured confidence; keep building.
	OutcomeAboveThreshold
	// OutcomeBelowThreshold means 1/pT plus NSigma errors exceeds 1/threshold; stop.
	OutcomeBelowThreshold
	// OutcomeIndeterminate means the state carried NaN or infinite values.
	OutcomeIndeterminate

	numOutcomes
)

var outcomeNames = [numOutcomes]string{
	OutcomeBelowMinHits:       "below_min_hits",
	OutcomeDegenerateMomentum: "degenerate_momentum",
	OutcomeUnstableError:      "unstable_error",
	OutcomeAboveThreshold:     "above_threshold",
	OutcomeBelowThreshold:     "below_threshold",
	OutcomeIndeterminate:      "indeterminate",
}

func (o Outcome) String() string {
	if o < numOutcomes {
		return outcomeNames[o]
	}
	return "unknown"
}

// Outcomes lists every outcome in declaration order.
func Outcomes() []Outcome {
	out := make([]Outcome, numOutcomes)
	for i := range out {
		out[i] = Outcome(i)
	}
	return out
}

// Continue reports whether a candidate with this outcome should be extended.
// Indeterminate states keep building: the cut never accepts a candidate it could not judge.
func (o Outcome) Continue() bool {
	switch o {
	case OutcomeBelowMinHits, OutcomeAboveThreshold, OutcomeIndeterminate:
		return true
	default:
		return false
	}
}

// Decision is the result of one evaluation.
type Decision struct {
	Outcome Outcome

	// PT and InvPtError are the inputs of the statistical test. They are zero
	// when the evaluation stopped before computing them.
	PT         float64
	InvPtError float64
}

// Continue reports whether building should go on.
func (d Decision) Continue() bool { return d.Outcome.Continue() }

// Accept reports whether the candidate passes the quality filter. It is always !Continue.
func (d Decision) Accept() bool { return !d.Outcome.Continue() }
