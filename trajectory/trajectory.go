// Package trajectory provides the candidate containers a trajectory builder grows
// one measurement at a time.
//
// Trajectory is a plain append-only container for finished candidates.
// TempTrajectory is a persistent list with value semantics: pushing onto a copy
// never disturbs the original, so sibling branches can share their common history.
package trajectory

import "github.com/cms-cvs-history/trajfilter/state"

// Measurement is one step of a candidate: the state after the update with the
// hit (or with no hit when Valid is false).
type Measurement struct {
	UpdatedState state.FreeState
	Valid        bool
}

// Trajectory is an append-only sequence of measurements.
type Trajectory struct {
	measurements []Measurement
	foundHits    int
}

// New returns an empty trajectory with room for n measurements.
func New(n int) *Trajectory {
	return &Trajectory{measurements: make([]Measurement, 0, n)}
}

// Push appends a measurement.
func (t *Trajectory) Push(m Measurement) {
	t.measurements = append(t.measurements, m)
	if m.Valid {
		t.foundHits++
	}
}

// LastMeasurement returns the most recent measurement, or the zero value when empty.
func (t *Trajectory) LastMeasurement() Measurement {
	if len(t.measurements) == 0 {
		return Measurement{}
	}
	return t.measurements[len(t.measurements)-1]
}

// FoundHits returns the number of valid hits.
func (t *Trajectory) FoundHits() int { return t.foundHits }

// LostHits returns the number of steps without a valid hit.
func (t *Trajectory) LostHits() int { return len(t.measurements) - t.foundHits }

// Len returns the number of measurements.
func (t *Trajectory) Len() int { return len(t.measurements) }

// Measurements returns the measurements in push order. The slice must not be modified.
func (t *Trajectory) Measurements() []Measurement { return t.measurements }
