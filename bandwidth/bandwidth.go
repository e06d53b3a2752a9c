// Package bandwidth provides covariance estimators for the kernel of the
// smoothing engines.
//
// An Estimator is called once when a covariance is assigned. The rules here
// scale the sample covariance of the explanatory variables by a factor
// depending on the number of samples n and the dimension d.
package bandwidth

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

// Estimator computes a kernel covariance from the training data. xdata is
// d×N with one observation per column. The result must be d×d.
type Estimator func(xdata mat.Matrix, ydata []float64) (mat.Matrix, error)

// ScottFactor returns Scott's variance factor n^(-2/(d+4)).
func ScottFactor(n, d int) float64 {
	return math.Pow(float64(n), -2/float64(d+4))
}

// SilvermanFactor returns Silverman's variance factor (n(d+2)/4)^(-2/(d+4)).
func SilvermanFactor(n, d int) float64 {
	return math.Pow(float64(n)*float64(d+2)/4, -2/float64(d+4))
}

// Scott is the default estimator: the sample covariance times ScottFactor.
func Scott(xdata mat.Matrix, ydata []float64) (mat.Matrix, error) {
	return ScaledCovariance(ScottFactor)(xdata, ydata)
}

// Silverman is the sample covariance times SilvermanFactor.
func Silverman(xdata mat.Matrix, ydata []float64) (mat.Matrix, error) {
	return ScaledCovariance(SilvermanFactor)(xdata, ydata)
}

// ScaledCovariance returns an estimator multiplying the sample covariance of
// xdata by factor(n, d).
func ScaledCovariance(factor func(n, d int) float64) Estimator {
	return func(xdata mat.Matrix, _ []float64) (mat.Matrix, error) {
		cov, err := SampleCovariance(xdata)
		if err != nil {
			return nil, err
		}
		d, n := xdata.Dims()
		cov.ScaleSym(factor(n, d), cov)
		return cov, nil
	}
}

// SampleCovariance returns the unbiased d×d covariance of the columns of
// xdata.
func SampleCovariance(xdata mat.Matrix) (*mat.SymDense, error) {
	d, n := xdata.Dims()
	if d == 0 || n == 0 {
		return nil, errors.NewModelError("bandwidth.SampleCovariance", "no samples", errors.ErrEmptyData)
	}
	if n < 2 {
		return nil, errors.NewValueError("bandwidth.SampleCovariance", "at least two samples are required")
	}
	cov := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(cov, xdata.T(), nil)
	return cov, nil
}
