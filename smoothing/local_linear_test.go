package smoothing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

func TestLocalLinear1D_ReproducesLine(t *testing.T) {
	x := []float64{0, 0.5, 1.2, 2, 3.1, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	l, err := NewLocalLinear1D(x, y, WithCovariance(Scalar(0.64)))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, l.Bandwidth(), 1e-12)
	assert.InDelta(t, 0.64, l.Covariance(), 1e-12)

	points := []float64{-1, 0.3, 2.5, 5}
	got, err := l.Evaluate(points)
	require.NoError(t, err)
	for j, p := range points {
		assert.InDelta(t, 2*p+1, got[j], 1e-9)
	}
}

func TestLocalLinear1D_MatchesLocalPolynomialOrderOne(t *testing.T) {
	x := []float64{0, 0.4, 1, 1.7, 2.2, 3, 3.5}
	y := []float64{0.1, 0.5, 0.8, 1.0, 0.7, 0.2, -0.3}
	points := []float64{0.2, 1.5, 2.9, 3.4}

	lin, err := NewLocalLinear1D(x, y, WithCovariance(Scalar(0.3)))
	require.NoError(t, err)
	poly, err := NewLocalPolynomial1D(x, y, WithCovariance(Scalar(0.3)), WithOrder(1))
	require.NoError(t, err)

	a, err := lin.Evaluate(points)
	require.NoError(t, err)
	b, err := poly.Evaluate(points)
	require.NoError(t, err)
	assert.InDeltaSlice(t, b, a, 1e-10)
}

func TestLocalLinear1D_LI2(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 2, 5, 4}

	l, err := NewLocalLinear1D(x, y, WithCovariance(Scalar(1)))
	require.NoError(t, err)
	assert.Nil(t, l.LI2())

	points := []float64{0.5, 2, 3.7}
	_, err = l.Evaluate(points)
	require.NoError(t, err)

	li2 := l.LI2()
	require.Len(t, li2, len(points))
	// The equivalent-kernel weights sum to one, so their squared norm is at
	// least 1/N.
	for _, v := range li2 {
		assert.GreaterOrEqual(t, v, 1.0/float64(len(x))-1e-12)
	}
	li2[0] = -1
	assert.NotEqual(t, -1.0, l.LI2()[0])

	_, err = l.Evaluate([]float64{1})
	require.NoError(t, err)
	assert.Len(t, l.LI2(), 1)
}

func TestSolveLocalLinear_Singular(t *testing.T) {
	// No sample carries weight at 100.
	_, _, err := SolveLocalLinear(0.1, []float64{0, 1}, []float64{0, 2}, []float64{0.5, 100}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSingularMatrix)

	var numErr *errors.NumericalError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, 1, numErr.Index)
}

func TestSolveLocalLinear_Errors(t *testing.T) {
	_, _, err := SolveLocalLinear(1, []float64{1, 2}, []float64{0}, []float64{0}, nil)
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	_, _, err = SolveLocalLinear(0, []float64{1, 2}, []float64{0, 1}, []float64{0}, nil)
	assert.ErrorIs(t, err, errors.ErrSingularMatrix)

	_, _, err = SolveLocalLinear(1, []float64{1, 2}, []float64{0, 1}, []float64{0}, make([]float64, 2))
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}

func TestLocalLinear1D_CustomSolverChunkIndex(t *testing.T) {
	setProcs(t, 4)
	failing := func(bw float64, xdata, ydata, points, out []float64) ([]float64, []float64, error) {
		for j, p := range points {
			if math.IsNaN(p) {
				return nil, nil, errors.NewPointNumericalError("stub", j, nil)
			}
			out[j] = p
		}
		return make([]float64, len(points)), out, nil
	}

	l, err := NewLocalLinear1D([]float64{0, 1}, []float64{0, 1},
		WithLinearSolver(failing), WithCovariance(Scalar(1)), WithParallelThreshold(1))
	require.NoError(t, err)

	points := []float64{0, 1, 2, 3, 4, math.NaN(), 6, 7}
	_, err = l.Evaluate(points)
	require.Error(t, err)

	var numErr *errors.NumericalError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, 5, numErr.Index)

	got, err := l.Evaluate([]float64{3, 1, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 4}, got)
}

func TestLocalLinear1D_CustomSolverWrongLength(t *testing.T) {
	short := func(bw float64, xdata, ydata, points, out []float64) ([]float64, []float64, error) {
		return make([]float64, len(points)), make([]float64, len(points)-1), nil
	}
	l, err := NewLocalLinear1D([]float64{0, 1}, []float64{0, 1},
		WithLinearSolver(short), WithCovariance(Scalar(1)))
	require.NoError(t, err)

	_, err = l.Evaluate([]float64{0, 1, 2})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
	assert.Nil(t, l.LI2())
}

func TestLocalLinear1D_Errors(t *testing.T) {
	_, err := NewLocalLinear1D(nil, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyData)

	_, err = NewLocalLinear1D([]float64{0, 1}, []float64{0})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	_, err = NewLocalLinear1D([]float64{0, 1}, []float64{0, 1}, WithLinearSolver(nil))
	assert.ErrorIs(t, err, errors.ErrInvalidValue)

	l, err := NewLocalLinear1D([]float64{0, 1, 2}, []float64{0, 1, 2}, WithCovariance(Scalar(0)))
	require.NoError(t, err)
	_, err = l.Evaluate([]float64{1})
	assert.ErrorIs(t, err, errors.ErrSingularMatrix)

	require.NoError(t, l.SetCovariance(Scalar(1)))
	got, err := l.Evaluate(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
