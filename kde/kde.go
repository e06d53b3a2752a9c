// Package kde implements a Gaussian kernel density estimator with Scott's
// bandwidth rule, used by the density correction of the spatial average.
package kde

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/ezoic/kernsmooth/bandwidth"
	"github.com/ezoic/kernsmooth/pkg/errors"
)

// Gaussian estimates the density of a d-dimensional sample as the average of
// normal densities centred on each observation, all sharing the kernel
// covariance ScottFactor(n, d) times the sample covariance.
type Gaussian struct {
	data   *mat.Dense
	kernel *distmv.Normal
	cov    *mat.SymDense
}

// NewGaussian builds the estimator from x, a d×N matrix with one observation
// per column. At least two observations are needed to estimate the
// covariance, which must be positive definite.
func NewGaussian(x mat.Matrix) (_ *Gaussian, err error) {
	defer errors.Recover(&err, "kde.NewGaussian")

	cov, err := bandwidth.SampleCovariance(x)
	if err != nil {
		return nil, err
	}
	d, n := x.Dims()
	cov.ScaleSym(bandwidth.ScottFactor(n, d), cov)

	kernel, ok := distmv.NewNormal(make([]float64, d), cov, nil)
	if !ok {
		return nil, errors.NewNumericalError("kde.NewGaussian", "kernel covariance is not positive definite", nil)
	}
	return &Gaussian{data: mat.DenseCopyOf(x), kernel: kernel, cov: cov}, nil
}

// Covariance returns the kernel covariance.
func (g *Gaussian) Covariance() mat.Symmetric {
	return g.cov
}

// Evaluate returns the estimated density at each column of points (d×M).
func (g *Gaussian) Evaluate(points mat.Matrix) (_ []float64, err error) {
	defer errors.Recover(&err, "kde.Gaussian.Evaluate")

	d, n := g.data.Dims()
	pd, m := points.Dims()
	if pd != d {
		return nil, errors.NewDimensionError("kde.Gaussian.Evaluate", d, pd, 0)
	}

	out := make([]float64, m)
	diff := make([]float64, d)
	for j := 0; j < m; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			for k := 0; k < d; k++ {
				diff[k] = points.At(k, j) - g.data.At(k, i)
			}
			sum += math.Exp(g.kernel.LogProb(diff))
		}
		out[j] = sum / float64(n)
	}
	return out, nil
}
