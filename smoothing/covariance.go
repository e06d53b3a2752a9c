package smoothing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/bandwidth"
	"github.com/ezoic/kernsmooth/pkg/errors"
)

type covarianceKind int

const (
	covarianceEstimated covarianceKind = iota
	covarianceFixed
	covarianceScalar
)

// Covariance selects the covariance of the kernel: a fixed matrix, an
// isotropic variance, or an estimator called with the training data. It is
// resolved once, when assigned to an engine.
type Covariance struct {
	kind      covarianceKind
	matrix    mat.Matrix
	variance  float64
	estimator bandwidth.Estimator
}

// Fixed uses m, which must be a symmetric d×d matrix, as the covariance.
func Fixed(m mat.Matrix) Covariance {
	return Covariance{kind: covarianceFixed, matrix: m}
}

// Scalar uses v·I as the covariance. For the one-dimensional engines this is
// the kernel variance, the square of the bandwidth.
func Scalar(v float64) Covariance {
	return Covariance{kind: covarianceScalar, variance: v}
}

// Estimated computes the covariance with e(xdata, ydata).
func Estimated(e bandwidth.Estimator) Covariance {
	return Covariance{kind: covarianceEstimated, estimator: e}
}

func (c Covariance) resolve(dim int, xdata mat.Matrix, ydata []float64) (*mat.SymDense, error) {
	const op = "Covariance.resolve"

	var m mat.Matrix
	switch c.kind {
	case covarianceScalar:
		if math.IsNaN(c.variance) || math.IsInf(c.variance, 0) {
			return nil, errors.NewValueError(op, "variance must be finite")
		}
		cov := mat.NewSymDense(dim, nil)
		for i := 0; i < dim; i++ {
			cov.SetSym(i, i, c.variance)
		}
		return cov, nil
	case covarianceFixed:
		m = c.matrix
	default:
		if c.estimator == nil {
			return nil, errors.NewValueError(op, "nil covariance estimator")
		}
		est, err := c.estimator(xdata, ydata)
		if err != nil {
			return nil, errors.Wrap(err, "covariance estimator failed")
		}
		m = est
	}
	if m == nil {
		return nil, errors.NewValueError(op, "nil covariance matrix")
	}

	r, cols := m.Dims()
	if r != dim {
		return nil, errors.NewDimensionError(op, dim, r, 0)
	}
	if cols != dim {
		return nil, errors.NewDimensionError(op, dim, cols, 1)
	}
	if !mat.EqualApprox(m, m.T(), 1e-10) {
		return nil, errors.NewValueError(op, "covariance must be symmetric")
	}
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			cov.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return cov, nil
}

// CovarianceModel holds the kernel covariance C of an engine together with
// the quantities derived from it: the bandwidth B, the real part of the
// principal square root of C, and the inverse of C.
//
// The bandwidth is computed on first use and cleared whenever the covariance
// is reassigned. The inverse is computed on assignment when the model is
// created with eagerInverse, and on demand otherwise.
type CovarianceModel struct {
	dim          int
	eagerInverse bool

	cov *mat.SymDense
	bw  *mat.Dense
	inv *mat.Dense
}

// NewCovarianceModel creates an empty model for dim×dim covariances.
func NewCovarianceModel(dim int, eagerInverse bool) *CovarianceModel {
	return &CovarianceModel{dim: dim, eagerInverse: eagerInverse}
}

// Set resolves src against the training data and stores the result. On
// error the previous covariance is kept.
func (c *CovarianceModel) Set(src Covariance, xdata mat.Matrix, ydata []float64) error {
	cov, err := src.resolve(c.dim, xdata, ydata)
	if err != nil {
		return err
	}
	var inv *mat.Dense
	if c.eagerInverse {
		if inv, err = invert(cov); err != nil {
			return err
		}
	}
	c.cov = cov
	c.bw = nil
	c.inv = inv
	return nil
}

// Covariance returns the current covariance, or nil before the first Set.
func (c *CovarianceModel) Covariance() mat.Symmetric {
	if c.cov == nil {
		return nil
	}
	return c.cov
}

// Bandwidth returns the principal square root of the covariance.
func (c *CovarianceModel) Bandwidth() (mat.Matrix, error) {
	if c.cov == nil {
		return nil, errors.NewValueError("CovarianceModel.Bandwidth", "covariance is not set")
	}
	if c.bw == nil {
		bw, err := sqrtm(c.cov)
		if err != nil {
			return nil, err
		}
		c.bw = bw
	}
	return c.bw, nil
}

// ScalarBandwidth returns the square root of a 1×1 covariance. A negative
// variance has no real root and yields 0.
func (c *CovarianceModel) ScalarBandwidth() float64 {
	if c.cov == nil {
		return math.NaN()
	}
	if c.bw == nil {
		c.bw = mat.NewDense(1, 1, []float64{math.Sqrt(math.Max(c.cov.At(0, 0), 0))})
	}
	return c.bw.At(0, 0)
}

// Inverse returns the inverse of the covariance.
func (c *CovarianceModel) Inverse() (mat.Matrix, error) {
	if c.cov == nil {
		return nil, errors.NewValueError("CovarianceModel.Inverse", "covariance is not set")
	}
	if c.inv != nil {
		return c.inv, nil
	}
	inv, err := invert(c.cov)
	if err != nil {
		return nil, err
	}
	if c.eagerInverse {
		c.inv = inv
	}
	return inv, nil
}

// InverseBandwidth returns the inverse of the bandwidth matrix.
func (c *CovarianceModel) InverseBandwidth() (mat.Matrix, error) {
	bw, err := c.Bandwidth()
	if err != nil {
		return nil, err
	}
	return invert(bw)
}

func invert(m mat.Matrix) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, errors.NewNumericalError("CovarianceModel", "covariance is not invertible", err)
	}
	return &inv, nil
}

// sqrtm computes the principal square root of a symmetric matrix from its
// eigendecomposition, V·diag(√λ)·Vᵀ. Negative eigenvalues, which only come
// from rounding or an indefinite input, contribute the real part of their
// root, that is 0.
func sqrtm(a *mat.SymDense) (*mat.Dense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(a, true); !ok {
		return nil, errors.NewNumericalError("CovarianceModel", "eigendecomposition failed", nil)
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	n := len(values)
	var scaled mat.Dense
	scaled.CloneFrom(&vecs)
	for j, v := range values {
		s := math.Sqrt(math.Max(v, 0))
		for i := 0; i < n; i++ {
			scaled.Set(i, j, scaled.At(i, j)*s)
		}
	}
	var root mat.Dense
	root.Mul(&scaled, vecs.T())
	return &root, nil
}
