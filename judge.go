package trajfilter

import (
	"math"

	"github.com/cms-cvs-history/trajfilter/state"
)

const (
	// MinPt is the transverse momentum, in GeV, below which a state is treated as degenerate.
	MinPt = 0.010

	// MaxInvPtError is the 1/pT error above which the fit is considered numerically meaningless.
	MaxInvPtError = 1e10
)

// Judge applies the cut to a single state. It is pure: no cache, no side effects.
func (c Config) Judge(hits int, st *state.FreeState) Decision {
	if hits < c.MinHits {
		return Decision{Outcome: OutcomeBelowMinHits}
	}
	return c.judgeMomentum(st)
}

// judgeMomentum runs everything after the hit floor. The 1/pT error is only
// propagated once the momentum floor has passed.
func (c Config) judgeMomentum(st *state.FreeState) Decision {
	// The floor only needs the transverse components; NaN never compares below it.
	pt := st.Momentum.Perp()
	if pt < MinPt {
		return Decision{Outcome: OutcomeDegenerateMomentum, PT: pt}
	}
	if !st.Momentum.IsFinite() {
		return Decision{Outcome: OutcomeIndeterminate}
	}

	invErr := st.InversePtError()
	if math.IsNaN(invErr) {
		return Decision{Outcome: OutcomeIndeterminate, PT: pt, InvPtError: invErr}
	}
	if invErr > MaxInvPtError {
		return Decision{Outcome: OutcomeUnstableError, PT: pt, InvPtError: invErr}
	}

	if 1/pt+c.NSigma*invErr > 1/c.ThresholdPt {
		return Decision{Outcome: OutcomeBelowThreshold, PT: pt, InvPtError: invErr}
	}
	return Decision{Outcome: OutcomeAboveThreshold, PT: pt, InvPtError: invErr}
}
