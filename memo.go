package trajfilter

import "github.com/cms-cvs-history/trajfilter/state"

// memo is a single-slot cache of the last decision, keyed by momentum.
type memo struct {
	valid    bool
	momentum state.Vector
	decision Decision
}

// lookup compares components with ==, so NaN never hits.
func (m *memo) lookup(p state.Vector) (Decision, bool) {
	if !m.valid {
		return Decision{}, false
	}
	if m.momentum.X != p.X || m.momentum.Y != p.Y || m.momentum.Z != p.Z {
		return Decision{}, false
	}
	return m.decision, true
}

func (m *memo) store(p state.Vector, d Decision) {
	m.valid = true
	m.momentum = p
	m.decision = d
}

func (m *memo) reset() { *m = memo{} }
