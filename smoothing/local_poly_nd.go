package smoothing

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/core/model"
	"github.com/ezoic/kernsmooth/core/parallel"
	"github.com/ezoic/kernsmooth/core/tensor"
	"github.com/ezoic/kernsmooth/kernels"
	"github.com/ezoic/kernsmooth/pkg/errors"
	"github.com/ezoic/kernsmooth/pkg/log"
)

// LocalPolynomial is a local-polynomial regression of a d-dimensional
// variable. At each point x it minimises
//
//	Σ_i K(B⁻¹(X_i - x)) (Y_i - a_0 - P_q(X_i - x))²
//
// where B is the bandwidth matrix and P_q a polynomial of total degree q
// without constant term, and returns a_0. The monomials of P_q are those of
// DesignMatrix, scaled by the factorial of their degree so the coefficients
// are Taylor coefficients.
type LocalPolynomial struct {
	model.BaseEstimator

	xdata *mat.Dense
	ydata []float64
	d, n  int
	q     int

	kernel            kernels.Kernel
	cov               *CovarianceModel
	parallelThreshold int
}

// NewLocalPolynomial creates a local-polynomial engine over xdata, a d×N
// matrix with one observation per column, and the N responses ydata. The
// covariance is a d×d matrix; the default kernel is kernels.Normal(d).
func NewLocalPolynomial(xdata mat.Matrix, ydata []float64, options ...Option) (_ *LocalPolynomial, err error) {
	const op = "NewLocalPolynomial"
	defer errors.Recover(&err, op)

	x, y, err := checkSamples(op, xdata, ydata)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(options)
	if cfg.order < 0 {
		return nil, errors.NewValueError(op, "order must be non-negative")
	}
	d, n := x.Dims()
	if cfg.kernel == nil {
		cfg.kernel = kernels.Normal(d)
	}

	l := &LocalPolynomial{
		BaseEstimator:     model.NewBaseEstimator("LocalPolynomial", cfg.logger),
		xdata:             x,
		ydata:             y,
		d:                 d,
		n:                 n,
		q:                 cfg.order,
		kernel:            cfg.kernel,
		cov:               NewCovarianceModel(d, false),
		parallelThreshold: cfg.parallelThreshold,
	}
	if err := l.cov.Set(cfg.covariance, l.xdata, l.ydata); err != nil {
		return nil, err
	}
	l.SetParam("order", l.q)
	l.SetParam("dimension", d)

	l.LogInfo("Engine created",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseSetup,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.OrderKey, l.q,
	)
	return l, nil
}

// Dims returns the dimension d and the number of samples N.
func (l *LocalPolynomial) Dims() (d, n int) {
	return l.d, l.n
}

// Order returns the polynomial order q.
func (l *LocalPolynomial) Order() int {
	return l.q
}

// Covariance returns the kernel covariance.
func (l *LocalPolynomial) Covariance() mat.Symmetric {
	return l.cov.Covariance()
}

// SetCovariance replaces the kernel covariance and clears the cached
// bandwidth.
func (l *LocalPolynomial) SetCovariance(cov Covariance) (err error) {
	defer errors.Recover(&err, "LocalPolynomial.SetCovariance")
	return l.cov.Set(cov, l.xdata, l.ydata)
}

// Bandwidth returns the bandwidth matrix, the square root of the covariance.
func (l *LocalPolynomial) Bandwidth() (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "LocalPolynomial.Bandwidth")
	return l.cov.Bandwidth()
}

// Evaluate returns the local-polynomial fit at each column of points (d×M).
// It fails with a NumericalError when the bandwidth is singular or when the
// weighted normal matrix of a point is.
func (l *LocalPolynomial) Evaluate(points mat.Matrix) ([]float64, error) {
	return l.EvaluateTo(nil, points)
}

// EvaluateTo is Evaluate writing into dst, which must be nil or hold one
// value per point.
func (l *LocalPolynomial) EvaluateTo(dst []float64, points mat.Matrix) (_ []float64, err error) {
	const op = "LocalPolynomial.Evaluate"
	defer errors.Recover(&err, op)

	m, err := checkPoints(op, points, l.d)
	if err != nil {
		return nil, err
	}
	out, err := output(op, dst, m)
	if err != nil {
		return nil, err
	}
	if m == 0 {
		return out, nil
	}
	invBw, err := l.cov.InverseBandwidth()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	size, frac := DesignMatrixSizeFactors(l.d, l.q)
	err = parallel.ParallelizeWithThresholdErr(m, l.parallelThreshold, func(start, end int) error {
		return l.evaluateRange(out, points, invBw, size, frac, start, end)
	})
	if err != nil {
		l.LogError("Evaluation failed", err, log.OperationKey, log.OperationEvaluate)
		return nil, err
	}

	l.LogDebug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseInference,
		log.PointsKey, m,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)
	return out, nil
}

func (l *LocalPolynomial) evaluateRange(out []float64, points, invBw mat.Matrix, size int, frac []float64, start, end int) error {
	const op = "LocalPolynomial.Evaluate"

	p := make([]float64, l.d)
	dX := mat.NewDense(l.d, l.n, nil)
	var z mat.Dense
	w := make([]float64, l.n)
	xx := mat.NewDense(size, l.n, nil)
	wxx := mat.NewDense(size, l.n, nil)
	var xwx mat.Dense
	rhs := mat.NewVecDense(size, nil)
	beta := mat.NewVecDense(size, nil)
	y := mat.NewVecDense(l.n, l.ydata)
	var lu mat.LU

	for j := start; j < end; j++ {
		p = tensor.Column(points, j, p)
		if err := tensor.CenterColumns(dX, l.xdata, p); err != nil {
			return err
		}
		z.Mul(invBw, dX)
		w = l.kernel(&z, w)

		if _, err := DesignMatrix(dX, l.q, frac, xx); err != nil {
			return err
		}
		wxx.Copy(xx)
		for r := 0; r < size; r++ {
			floats.Mul(wxx.RawRowView(r), w)
		}
		xwx.Mul(xx, wxx.T())
		rhs.MulVec(wxx, y)

		a0, err := solveIntercept(&lu, &xwx, rhs, beta)
		if err != nil {
			return errors.NewPointNumericalError(op, j, err)
		}
		out[j] = a0
	}
	return nil
}

// Score returns the coefficient of determination of the predictions at
// points against y.
func (l *LocalPolynomial) Score(points mat.Matrix, y []float64) (float64, error) {
	pred, err := l.Evaluate(points)
	if err != nil {
		return 0, err
	}
	return score("LocalPolynomial.Score", pred, y)
}
