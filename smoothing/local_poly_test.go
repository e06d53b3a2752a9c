package smoothing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/kernels"
	"github.com/ezoic/kernsmooth/pkg/errors"
)

// box is a compactly supported kernel: samples further than one bandwidth
// from the query point get no weight.
func box(z float64) float64 {
	if math.Abs(z) <= 1 {
		return 0.5
	}
	return 0
}

func TestLocalPolynomial1D_ReproducesQuadratic(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}

	l, err := NewLocalPolynomial1D(x, y, WithOrder(3), WithCovariance(Scalar(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, l.Order())
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 1.0, l.Bandwidth())

	got, err := l.Evaluate([]float64{2, 0.5, 3.25})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 0.25, 3.25 * 3.25}, got, 1e-8)
}

func TestLocalPolynomial1D_OrderZeroIsSpatialAverage(t *testing.T) {
	x := []float64{0, 0.3, 1.1, 2, 2.4}
	y := []float64{1, -1, 0.5, 2, 1.5}
	points := []float64{-0.5, 0.8, 1.9, 3}

	poly, err := NewLocalPolynomial1D(x, y, WithOrder(0), WithCovariance(Scalar(0.4)))
	require.NoError(t, err)
	nw, err := NewSpatialAverage(mat.NewDense(1, len(x), x), y, WithCovariance(Scalar(0.4)))
	require.NoError(t, err)

	a, err := poly.Evaluate(points)
	require.NoError(t, err)
	b, err := nw.Evaluate(mat.NewDense(1, len(points), points))
	require.NoError(t, err)
	assert.InDeltaSlice(t, b, a, 1e-12)
}

func TestLocalPolynomial1D_SingularNormalMatrix(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}

	l, err := NewLocalPolynomial1D(x, y, WithOrder(2), WithCovariance(Scalar(1)),
		WithKernel(kernels.Product(box)))
	require.NoError(t, err)

	// At 2 three samples are in the window, enough for a quadratic.
	got, err := l.Evaluate([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 4, got[0], 1e-9)

	// At 100 no sample is.
	_, err = l.Evaluate([]float64{2, 100})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSingularMatrix)

	var numErr *errors.NumericalError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, 1, numErr.Index)
}

func TestLocalPolynomial1D_Covariance(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	l, err := NewLocalPolynomial1D(x, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	// Scott: unbiased variance 5/3 times 4^(-2/5).
	want := 5.0 / 3 * math.Pow(4, -0.4)
	assert.InDelta(t, want, l.Covariance(), 1e-12)
	assert.InDelta(t, math.Sqrt(want), l.Bandwidth(), 1e-12)

	require.NoError(t, l.SetCovariance(Scalar(0.09)))
	assert.InDelta(t, 0.3, l.Bandwidth(), 1e-12)

	assert.Equal(t, DefaultOrder, l.GetParams()["order"])
}

func TestLocalPolynomial1D_Errors(t *testing.T) {
	_, err := NewLocalPolynomial1D([]float64{0, 1}, []float64{0, 1}, WithOrder(-1))
	assert.ErrorIs(t, err, errors.ErrInvalidValue)

	_, err = NewLocalPolynomial1D([]float64{}, []float64{})
	assert.ErrorIs(t, err, errors.ErrEmptyData)

	l, err := NewLocalPolynomial1D([]float64{0, 1, 2}, []float64{0, 1, 2}, WithOrder(1), WithCovariance(Scalar(0)))
	require.NoError(t, err)
	_, err = l.Evaluate([]float64{1})
	assert.ErrorIs(t, err, errors.ErrSingularMatrix)

	require.NoError(t, l.SetCovariance(Scalar(1)))
	_, err = l.EvaluateTo(make([]float64, 1), []float64{1, 2})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	dst := make([]float64, 2)
	got, err := l.EvaluateTo(dst, []float64{0.5, 1.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1.5}, dst, 1e-9)
	assert.Equal(t, dst, got)
}

func TestLocalPolynomial1D_ParallelMatchesSequential(t *testing.T) {
	setProcs(t, 4)
	x := make([]float64, 40)
	y := make([]float64, 40)
	for i := range x {
		x[i] = float64(i) / 4
		y[i] = math.Sin(x[i])
	}
	points := make([]float64, 300)
	for i := range points {
		points[i] = float64(i) / 30
	}

	seq, err := NewLocalPolynomial1D(x, y, WithParallelThreshold(math.MaxInt))
	require.NoError(t, err)
	par, err := NewLocalPolynomial1D(x, y, WithParallelThreshold(1))
	require.NoError(t, err)

	a, err := seq.Evaluate(points)
	require.NoError(t, err)
	b, err := par.Evaluate(points)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Scott's rule oversmooths a sine over a few periods.
	r2, err := seq.Score(x, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.95)

	narrow, err := NewLocalPolynomial1D(x, y, WithCovariance(Scalar(0.1)))
	require.NoError(t, err)
	r2, err = narrow.Score(x, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.999)
}
