package benchmark_test

import (
	"testing"

	"github.com/cms-cvs-history/trajfilter"
	"github.com/cms-cvs-history/trajfilter/testutil"
	"github.com/cms-cvs-history/trajfilter/trajectory"
)

func candidates(n, steps int) [][]trajectory.Measurement {
	rng := testutil.NewRNG(1)
	out := make([][]trajectory.Measurement, n)
	for i := range out {
		out[i] = rng.Candidate(testutil.CandidateSpec{Steps: steps, PtMin: 0.3, PtMax: 30, Resolution: 0.05})
	}
	return out
}

func newFilter(b *testing.B) *trajfilter.ThresholdPtFilter {
	f, err := trajfilter.New(trajfilter.Config{ThresholdPt: 1, NSigma: trajfilter.DefaultNSigma, MinHits: 3})
	if err != nil {
		b.Fatal(err)
	}
	return f
}

// BenchmarkBuilderStep asks both questions per step the way a builder does,
// so every second evaluation is served by the memo.
func BenchmarkBuilderStep(b *testing.B) {
	b.ReportAllocs()
	cands := candidates(256, 12)
	f := newFilter(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var traj trajectory.TempTrajectory
		for _, m := range cands[i%len(cands)] {
			traj = traj.Push(m)
			if !f.ToBeContinued(traj) {
				break
			}
		}
		_ = f.QualityFilter(traj)
	}
}

// BenchmarkPair answers both questions per step without the memo.
func BenchmarkPair(b *testing.B) {
	b.ReportAllocs()
	cands := candidates(256, 12)
	f := newFilter(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var traj trajectory.TempTrajectory
		for _, m := range cands[i%len(cands)] {
			traj = traj.Push(m)
			if _, cont := f.Pair(traj); !cont {
				break
			}
		}
	}
}

func BenchmarkInversePtError(b *testing.B) {
	b.ReportAllocs()
	rng := testutil.NewRNG(2)
	st := rng.State(0.5, 50, 0.02)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = st.InversePtError()
	}
}

func BenchmarkBuilderStep_Parallel(b *testing.B) {
	b.ReportAllocs()
	cands := candidates(256, 12)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		f := newFilter(b)
		i := 0
		for pb.Next() {
			var traj trajectory.TempTrajectory
			for _, m := range cands[i%len(cands)] {
				traj = traj.Push(m)
				if !f.ToBeContinued(traj) {
					break
				}
			}
			_ = f.QualityFilter(traj)
			i++
		}
	})
}
