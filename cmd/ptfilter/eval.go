package main

import (
	"fmt"
	"math"

	"github.com/cms-cvs-history/trajfilter"
	"github.com/cms-cvs-history/trajfilter/codec"
	"github.com/cms-cvs-history/trajfilter/state"
	"github.com/spf13/cobra"
)

type evalOptions struct {
	cfg      trajfilter.Config
	hits     int
	momentum []float64
	charge   int
	sigmaQoP float64
	cov      []float64
	asJSON   bool
}

// evalOutput uses nil for values JSON cannot carry (NaN, Inf).
type evalOutput struct {
	Outcome    string   `json:"outcome"`
	Continue   bool     `json:"continue"`
	Accept     bool     `json:"accept"`
	PT         *float64 `json:"pt"`
	InvPtError *float64 `json:"inv_pt_error"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func newEvalCmd() *cobra.Command {
	var o evalOptions
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Judge a single track state",
		Long: `Judge a single track state against the threshold-pT cut.

The error is either the full curvilinear covariance (--cov, 15 upper-triangle
values in q/p, lambda, phi, x, y order) or only the q/p standard deviation
(--sigma-qop).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, o)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&o.cfg.ThresholdPt, "threshold", 0, "pT threshold in GeV")
	f.Float64Var(&o.cfg.NSigma, "nsigma", trajfilter.DefaultNSigma, "confidence in standard deviations")
	f.IntVar(&o.cfg.MinHits, "min-hits", 0, "hits required before the cut applies")
	f.IntVar(&o.hits, "hits", 0, "valid hits on the candidate")
	f.Float64SliceVar(&o.momentum, "momentum", nil, "momentum px,py,pz in GeV")
	f.IntVar(&o.charge, "charge", 1, "track charge")
	f.Float64Var(&o.sigmaQoP, "sigma-qop", 0, "q/p standard deviation in 1/GeV")
	f.Float64SliceVar(&o.cov, "cov", nil, "15 upper-triangle curvilinear covariance values")
	f.BoolVar(&o.asJSON, "json", false, "print the decision as JSON")
	_ = cmd.MarkFlagRequired("threshold")
	_ = cmd.MarkFlagRequired("momentum")
	return cmd
}

func runEval(cmd *cobra.Command, o evalOptions) error {
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	if len(o.momentum) != 3 {
		return fmt.Errorf("--momentum needs 3 values, got %d", len(o.momentum))
	}
	st := state.FreeState{
		Momentum: state.Vector{X: o.momentum[0], Y: o.momentum[1], Z: o.momentum[2]},
		Charge:   o.charge,
	}
	switch {
	case len(o.cov) > 0:
		cov, err := state.CurvilinearError(o.cov)
		if err != nil {
			return err
		}
		st.Error = cov
	case o.sigmaQoP > 0:
		var diag [state.CurvilinearDim]float64
		diag[state.QOverP] = o.sigmaQoP * o.sigmaQoP
		st.Error = state.DiagonalError(diag)
	}

	d := o.cfg.Judge(o.hits, &st)
	w := cmd.OutOrStdout()
	if o.asJSON {
		b, err := codec.Default.Marshal(evalOutput{
			Outcome:    d.Outcome.String(),
			Continue:   d.Continue(),
			Accept:     d.Accept(),
			PT:         finite(d.PT),
			InvPtError: finite(d.InvPtError),
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
	_, err := fmt.Fprintf(w, "outcome=%s continue=%t accept=%t pt=%.6g inv_pt_error=%.6g\n",
		d.Outcome, d.Continue(), d.Accept(), d.PT, d.InvPtError)
	return err
}
