// Package trajfilter provides the conditional transverse-momentum cut used by a
// combinatorial trajectory builder.
//
// At every step the builder asks two questions about a candidate: should it be
// kept as a final result (QualityFilter), and is it worth extending
// (ToBeContinued). Both come from one statistical test on the fitted pT and the
// propagated error on 1/pT:
//
//	stop when 1/pT + NSigma*sigma(1/pT) > 1/ThresholdPt
//
// so a candidate keeps growing only while its pT is above threshold at the
// configured confidence, and the candidates it stops are the ones it accepts.
//
// # Quick Start
//
//	f, err := trajfilter.New(trajfilter.Config{
//	    ThresholdPt: 10,
//	    NSigma:      trajfilter.DefaultNSigma,
//	    MinHits:     3,
//	})
//	if err != nil {
//	    return err
//	}
//
//	traj = traj.Push(measurement)
//	if !f.ToBeContinued(traj) {
//	    if f.QualityFilter(traj) {
//	        results = append(results, traj.ToTrajectory())
//	    }
//	}
//
// # Floors
//
// Before the statistical test:
//
//   - fewer than MinHits valid hits: always continue
//   - pT below MinPt (10 MeV): stop, even if pz is not finite
//   - sigma(1/pT) above MaxInvPtError: stop
//   - otherwise NaN or infinite momentum, or a NaN error: OutcomeIndeterminate, which continues
//
// # Memo
//
// The second question of a pair repeats the first one's input. The filter
// remembers its last decision keyed by the exact momentum vector and serves the
// repeat from memory. The memory is per instance; see ThresholdPtFilter for the
// ordering contract, and Pair for the variant without hidden state.
//
// # Replay
//
// The replay package drives the filter over recorded candidate traces stored in
// any blobstore backend (local disk, MinIO, S3) and summarizes the decisions.
package trajfilter
