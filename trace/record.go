// Package trace reads and writes recorded trajectory candidates.
//
// A trace is a stream of newline-delimited records, one per candidate, each
// holding the updated state after every step the builder took. Streams may be
// LZ4 or ZSTD framed.
package trace

import (
	"fmt"

	"github.com/cms-cvs-history/trajfilter/state"
	"github.com/cms-cvs-history/trajfilter/trajectory"
)

// Record is one recorded candidate.
type Record struct {
	ID    uint32 `json:"id"`
	Steps []Step `json:"steps"`
}

// Step is one measurement of a recorded candidate.
type Step struct {
	Valid    bool       `json:"valid"`
	Position [3]float64 `json:"pos"`
	Momentum [3]float64 `json:"mom"`
	Charge   int        `json:"q"`
	// Error holds the 15 upper-triangle entries of the curvilinear covariance.
	Error []float64 `json:"err,omitempty"`
}

// Measurement converts the step into the form the filter consumes.
func (s Step) Measurement() (trajectory.Measurement, error) {
	m := trajectory.Measurement{
		Valid: s.Valid,
		UpdatedState: state.FreeState{
			Position: state.Vector{X: s.Position[0], Y: s.Position[1], Z: s.Position[2]},
			Momentum: state.Vector{X: s.Momentum[0], Y: s.Momentum[1], Z: s.Momentum[2]},
			Charge:   s.Charge,
		},
	}
	if len(s.Error) > 0 {
		cov, err := state.CurvilinearError(s.Error)
		if err != nil {
			return trajectory.Measurement{}, err
		}
		m.UpdatedState.Error = cov
	}
	return m, nil
}

// StepOf records a measurement.
func StepOf(m trajectory.Measurement) Step {
	st := m.UpdatedState
	return Step{
		Valid:    m.Valid,
		Position: [3]float64{st.Position.X, st.Position.Y, st.Position.Z},
		Momentum: [3]float64{st.Momentum.X, st.Momentum.Y, st.Momentum.Z},
		Charge:   st.Charge,
		Error:    state.UpperTriangle(st.Error),
	}
}

// RecordOf records every measurement of a trajectory.
func RecordOf(id uint32, t *trajectory.Trajectory) Record {
	ms := t.Measurements()
	rec := Record{ID: id, Steps: make([]Step, len(ms))}
	for i, m := range ms {
		rec.Steps[i] = StepOf(m)
	}
	return rec
}

// Measurements converts every step.
func (r Record) Measurements() ([]trajectory.Measurement, error) {
	out := make([]trajectory.Measurement, len(r.Steps))
	for i, s := range r.Steps {
		m, err := s.Measurement()
		if err != nil {
			return nil, fmt.Errorf("candidate %d step %d: %w", r.ID, i, err)
		}
		out[i] = m
	}
	return out, nil
}
