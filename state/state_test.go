package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_PerpAndMag(t *testing.T) {
	v := Vector{X: 3, Y: 4, Z: 12}
	assert.InDelta(t, 5.0, v.Perp(), 1e-12)
	assert.InDelta(t, 13.0, v.Mag(), 1e-12)
	assert.True(t, v.IsFinite())

	assert.False(t, Vector{X: math.NaN()}.IsFinite())
	assert.False(t, Vector{Z: math.Inf(-1)}.IsFinite())
}

func TestFreeState_InversePtError(t *testing.T) {
	t.Run("NoError", func(t *testing.T) {
		s := FreeState{Momentum: Vector{X: 10}, Charge: 1}
		assert.Zero(t, s.InversePtError())
	})

	t.Run("TransverseTrack", func(t *testing.T) {
		// lambda = 0: sigma(q/pT) is sigma(q/p).
		s := FreeState{
			Momentum: Vector{X: 8},
			Charge:   -1,
			Error:    DiagonalError([CurvilinearDim]float64{0.0004, 1e-6, 1e-6, 1e-4, 1e-4}),
		}
		assert.InDelta(t, 0.02, s.InversePtError(), 1e-12)
	})

	t.Run("DippedTrack", func(t *testing.T) {
		// px = 3, pz = 4: cos(lambda) = 0.6, sin(lambda) = 0.8, q/p = 0.2.
		varQoP, varLambda := 1e-4, 4e-6
		s := FreeState{
			Momentum: Vector{X: 3, Z: 4},
			Charge:   1,
			Error:    DiagonalError([CurvilinearDim]float64{varQoP, varLambda, 0, 0, 0}),
		}
		j0 := 1 / 0.6
		j1 := 0.2 * 0.8 / (0.6 * 0.6)
		want := math.Sqrt(j0*j0*varQoP + j1*j1*varLambda)
		assert.InDelta(t, want, s.InversePtError(), 1e-12)
	})

	t.Run("Correlated", func(t *testing.T) {
		cov, err := CurvilinearError([]float64{
			1e-4, 2e-6, 0, 0, 0,
			4e-6, 0, 0, 0,
			1e-6, 0, 0,
			1e-4, 0,
			1e-4,
		})
		require.NoError(t, err)
		s := FreeState{Momentum: Vector{X: 3, Z: 4}, Charge: 1, Error: cov}

		j0 := 1 / 0.6
		j1 := 0.2 * 0.8 / (0.6 * 0.6)
		want := math.Sqrt(j0*j0*1e-4 + 2*j0*j1*2e-6 + j1*j1*4e-6)
		assert.InDelta(t, want, s.InversePtError(), 1e-12)
	})

	t.Run("NoTransverseMomentum", func(t *testing.T) {
		s := FreeState{
			Momentum: Vector{Z: 5},
			Charge:   1,
			Error:    DiagonalError([CurvilinearDim]float64{1, 1, 1, 1, 1}),
		}
		assert.True(t, math.IsInf(s.InversePtError(), 1))
	})
}

func TestFreeState_SignedInverseMomentum(t *testing.T) {
	s := FreeState{Momentum: Vector{X: 0, Y: 4}, Charge: -1}
	assert.InDelta(t, -0.25, s.SignedInverseMomentum(), 1e-12)

	zero := FreeState{Charge: 1}
	assert.True(t, math.IsInf(zero.SignedInverseMomentum(), 1))
}

func TestCurvilinearError_RoundTrip(t *testing.T) {
	upper := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	cov, err := CurvilinearError(upper)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cov.At(1, 0))
	assert.Equal(t, upper, UpperTriangle(cov))

	empty, err := CurvilinearError(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
	assert.Nil(t, UpperTriangle(nil))

	_, err = CurvilinearError([]float64{1, 2, 3})
	var sizeErr *ErrCovarianceSize
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 3, sizeErr.Got)
}
