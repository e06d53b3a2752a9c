package kde

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/bandwidth"
	"github.com/ezoic/kernsmooth/pkg/errors"
)

func TestGaussian_MatchesClosedForm(t *testing.T) {
	x := mat.NewDense(1, 3, []float64{-1, 0, 2})
	g, err := NewGaussian(x)
	require.NoError(t, err)

	// Unbiased variance of {-1, 0, 2} is 7/3.
	h2 := 7.0 / 3 * bandwidth.ScottFactor(3, 1)
	assert.InDelta(t, h2, g.Covariance().At(0, 0), 1e-12)

	p := 0.5
	var want float64
	for _, xi := range []float64{-1, 0, 2} {
		want += math.Exp(-(p-xi)*(p-xi)/(2*h2)) / math.Sqrt(2*math.Pi*h2)
	}
	want /= 3

	got, err := g.Evaluate(mat.NewDense(1, 1, []float64{p}))
	require.NoError(t, err)
	assert.InDelta(t, want, got[0], 1e-12)
}

func TestGaussian_IntegratesToOne(t *testing.T) {
	x := mat.NewDense(1, 4, []float64{0, 1, 1.5, 4})
	g, err := NewGaussian(x)
	require.NoError(t, err)

	const n = 2001
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = -15 + 30*float64(i)/float64(n-1)
	}
	dens, err := g.Evaluate(mat.NewDense(1, n, grid))
	require.NoError(t, err)

	assert.InDelta(t, 1, integrate.Trapezoidal(grid, dens), 1e-6)
}

func TestGaussian_Errors(t *testing.T) {
	_, err := NewGaussian(mat.NewDense(1, 3, []float64{2, 2, 2}))
	assert.ErrorIs(t, err, errors.ErrSingularMatrix)

	g, err := NewGaussian(mat.NewDense(1, 3, []float64{0, 1, 2}))
	require.NoError(t, err)
	_, err = g.Evaluate(mat.NewDense(2, 1, []float64{0, 0}))
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}
