// Package testutil generates reproducible track states and candidates for
// tests and benchmarks.
//
// # Random States
//
//	rng := testutil.NewRNG(seed)
//	st := rng.State(0.5, 50, 0.02) // pT in [0.5, 50) GeV, 2% q/p resolution
//
// # Candidates
//
//	ms := rng.Candidate(testutil.CandidateSpec{Steps: 12, PtMin: 0.5, PtMax: 5})
//	traj := trajectory.New(len(ms))
//	for _, m := range ms {
//	    traj.Push(m)
//	}
package testutil
