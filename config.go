package trajfilter

import "math"

// DefaultNSigma is the confidence multiplier used when none is configured.
const DefaultNSigma = 5.0

// Config is the threshold-pT cut policy. It is copied into a filter at construction
// and never changes afterwards.
//
// The YAML keys match the parameter names the builder configuration has always used.
type Config struct {
	// ThresholdPt is the transverse momentum threshold, in GeV.
	ThresholdPt float64 `yaml:"thresholdPt" json:"thresholdPt"`

	// NSigma is the number of standard deviations of 1/pT added before comparing
	// against 1/ThresholdPt.
	NSigma float64 `yaml:"nSigmaThresholdPt" json:"nSigmaThresholdPt"`

	// MinHits is the number of valid hits required before the cut applies.
	MinHits int `yaml:"minHitsThresholdPt" json:"minHitsThresholdPt"`
}

// DefaultConfig returns a policy for threshold with the default confidence
// multiplier and no hit floor.
func DefaultConfig(threshold float64) Config {
	return Config{ThresholdPt: threshold, NSigma: DefaultNSigma}
}

// Validate checks the policy fields.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.ThresholdPt) || math.IsInf(c.ThresholdPt, 0) || c.ThresholdPt <= 0:
		return &ErrInvalidConfig{Field: "thresholdPt", Value: c.ThresholdPt, Reason: "must be positive and finite"}
	case math.IsNaN(c.NSigma) || math.IsInf(c.NSigma, 0) || c.NSigma < 0:
		return &ErrInvalidConfig{Field: "nSigmaThresholdPt", Value: c.NSigma, Reason: "must be non-negative and finite"}
	case c.MinHits < 0:
		return &ErrInvalidConfig{Field: "minHitsThresholdPt", Value: c.MinHits, Reason: "must be non-negative"}
	}
	return nil
}
