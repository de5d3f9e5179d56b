package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/cms-cvs-history/trajfilter/state"
	"github.com/cms-cvs-history/trajfilter/trajectory"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [lo,hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// LogUniform returns a number in [lo,hi) whose logarithm is uniform. lo must be positive.
func (r *RNG) LogUniform(lo, hi float64) float64 {
	return math.Exp(r.Uniform(math.Log(lo), math.Log(hi)))
}

// State returns a state with pT log-uniform in [ptMin, ptMax), a random
// direction with |λ| < 1, random charge, and a diagonal curvilinear error
// whose q/p standard deviation is res·|q/p|.
func (r *RNG) State(ptMin, ptMax, res float64) state.FreeState {
	pt := r.LogUniform(ptMin, ptMax)
	phi := r.Uniform(-math.Pi, math.Pi)
	lambda := r.Uniform(-1, 1)
	charge := 1
	if r.Intn(2) == 0 {
		charge = -1
	}
	return WithResolution(state.FreeState{
		Position: state.Vector{X: r.Uniform(-0.1, 0.1), Y: r.Uniform(-0.1, 0.1), Z: r.Uniform(-5, 5)},
		Momentum: state.Vector{X: pt * math.Cos(phi), Y: pt * math.Sin(phi), Z: pt * math.Tan(lambda)},
		Charge:   charge,
	}, res)
}

// WithResolution returns st with a diagonal error giving a relative q/p
// resolution of res. Angular and position terms are fixed and small.
func WithResolution(st state.FreeState, res float64) state.FreeState {
	qop := 0.0
	if p := st.Momentum.Mag(); p > 0 {
		qop = float64(st.Charge) / p
	}
	sigma := res * qop
	st.Error = state.DiagonalError([state.CurvilinearDim]float64{sigma * sigma, 1e-6, 1e-6, 1e-4, 1e-4})
	return st
}

// CandidateSpec describes a generated candidate.
type CandidateSpec struct {
	// Steps is the number of measurements.
	Steps int
	// PtMin and PtMax bound the initial pT.
	PtMin, PtMax float64
	// Resolution is the relative q/p resolution of the first step. It
	// improves as 1/sqrt(hits).
	Resolution float64
	// ValidFraction is the probability that a step carries a real hit.
	// Zero means every step does.
	ValidFraction float64
}

// Candidate generates the measurements of one candidate. The momentum
// direction is kept, its magnitude jitters by the current resolution.
func (r *RNG) Candidate(spec CandidateSpec) []trajectory.Measurement {
	res := spec.Resolution
	if res <= 0 {
		res = 0.1
	}
	base := r.State(spec.PtMin, spec.PtMax, res)
	ms := make([]trajectory.Measurement, spec.Steps)
	hits := 0
	for i := range ms {
		valid := spec.ValidFraction <= 0 || r.Float64() < spec.ValidFraction
		if valid {
			hits++
		}
		stepRes := res / math.Sqrt(float64(max(hits, 1)))
		scale := 1 + stepRes*r.normFloat64()
		st := base
		st.Momentum = state.Vector{X: base.Momentum.X * scale, Y: base.Momentum.Y * scale, Z: base.Momentum.Z * scale}
		ms[i] = trajectory.Measurement{Valid: valid, UpdatedState: WithResolution(st, stepRes)}
	}
	return ms
}

func (r *RNG) normFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}
