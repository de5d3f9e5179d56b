// Package state models the fitted track state a trajectory filter judges.
//
// Positions and momenta are global Cartesian vectors. The fit uncertainty is kept as
// the 5x5 curvilinear covariance over (q/p, lambda, phi, x_perp, y_perp), which is
// the frame error propagation in the builder works in.
package state

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CurvilinearDim is the dimension of the curvilinear parameter space.
const CurvilinearDim = 5

// Curvilinear parameter indices.
const (
	QOverP = iota
	Lambda
	Phi
	XPerp
	YPerp
)

// Vector is a global Cartesian 3-vector.
type Vector struct {
	X, Y, Z float64
}

// Perp returns the magnitude of the transverse (x, y) component.
func (v Vector) Perp() float64 { return math.Hypot(v.X, v.Y) }

// Mag returns the vector magnitude.
func (v Vector) Mag() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// IsFinite reports whether every component is neither NaN nor infinite.
func (v Vector) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// FreeState is a track state without reference to a detector surface.
type FreeState struct {
	Position Vector
	Momentum Vector
	Charge   int

	// Error is the curvilinear covariance. Nil when the fit carries no error.
	Error mat.Symmetric
}

// SignedInverseMomentum returns q/p.
func (s *FreeState) SignedInverseMomentum() float64 {
	p := s.Momentum.Mag()
	if p == 0 {
		return math.Inf(1)
	}
	return float64(s.Charge) / p
}

// InversePtError returns the standard deviation of q/pT propagated from the
// curvilinear covariance. q/pT = (q/p)/cos(lambda), so the Jacobian row is
// (1/cos(lambda), (q/p)*sin(lambda)/cos^2(lambda), 0, 0, 0).
//
// A state without error reports zero; a state without transverse momentum reports +Inf.
func (s *FreeState) InversePtError() float64 {
	if s.Error == nil {
		return 0
	}
	p := s.Momentum.Mag()
	pt := s.Momentum.Perp()
	if p == 0 || pt == 0 {
		return math.Inf(1)
	}

	cosl := pt / p
	sinl := s.Momentum.Z / p
	qop := float64(s.Charge) / p

	jac := mat.NewVecDense(CurvilinearDim, nil)
	jac.SetVec(QOverP, 1/cosl)
	jac.SetVec(Lambda, qop*sinl/(cosl*cosl))

	return math.Sqrt(mat.Inner(jac, s.Error, jac))
}

// CurvilinearError builds the curvilinear covariance from its 15 upper-triangle
// entries in row-major order. It returns nil when upper is empty.
func CurvilinearError(upper []float64) (*mat.SymDense, error) {
	if len(upper) == 0 {
		return nil, nil
	}
	if len(upper) != CurvilinearDim*(CurvilinearDim+1)/2 {
		return nil, &ErrCovarianceSize{Got: len(upper)}
	}
	sym := mat.NewSymDense(CurvilinearDim, nil)
	k := 0
	for i := 0; i < CurvilinearDim; i++ {
		for j := i; j < CurvilinearDim; j++ {
			sym.SetSym(i, j, upper[k])
			k++
		}
	}
	return sym, nil
}

// UpperTriangle flattens a covariance into its upper-triangle entries, row-major.
func UpperTriangle(m mat.Symmetric) []float64 {
	if m == nil {
		return nil
	}
	n := m.SymmetricDim()
	out := make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// DiagonalError returns a curvilinear covariance with the given variances on the
// diagonal and zero correlations.
func DiagonalError(variances [CurvilinearDim]float64) *mat.SymDense {
	sym := mat.NewSymDense(CurvilinearDim, nil)
	for i, v := range variances {
		sym.SetSym(i, i, v)
	}
	return sym
}
