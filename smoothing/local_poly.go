package smoothing

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/core/model"
	"github.com/ezoic/kernsmooth/core/parallel"
	"github.com/ezoic/kernsmooth/core/tensor"
	"github.com/ezoic/kernsmooth/kernels"
	"github.com/ezoic/kernsmooth/pkg/errors"
	"github.com/ezoic/kernsmooth/pkg/log"
)

// LocalPolynomial1D is a local-polynomial regression of a one-dimensional
// variable. At each point x it minimises
//
//	Σ_i K((x - X_i)/h) (Y_i - a_0 - a_1(X_i - x) - ... - a_q (X_i - x)^q/q!)²
//
// and returns a_0. The kernel should have unit variance, otherwise the
// effective bandwidth is scaled by its standard deviation.
type LocalPolynomial1D struct {
	model.BaseEstimator

	xdata []float64
	ydata []float64
	q     int

	kernel            kernels.Kernel
	cov               *CovarianceModel
	parallelThreshold int
}

// NewLocalPolynomial1D creates a local-polynomial engine of order
// DefaultOrder unless WithOrder is given. The covariance is the kernel
// variance h².
func NewLocalPolynomial1D(xdata, ydata []float64, options ...Option) (_ *LocalPolynomial1D, err error) {
	const op = "NewLocalPolynomial1D"
	defer errors.Recover(&err, op)

	x, y, err := checkSamples1D(op, xdata, ydata)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(options)
	if cfg.order < 0 {
		return nil, errors.NewValueError(op, "order must be non-negative")
	}
	if cfg.kernel == nil {
		cfg.kernel = kernels.Normal(1)
	}

	l := &LocalPolynomial1D{
		BaseEstimator:     model.NewBaseEstimator("LocalPolynomial1D", cfg.logger),
		xdata:             x,
		ydata:             y,
		q:                 cfg.order,
		kernel:            cfg.kernel,
		cov:               NewCovarianceModel(1, false),
		parallelThreshold: cfg.parallelThreshold,
	}
	if err := l.cov.Set(cfg.covariance, tensor.RowVector(x), y); err != nil {
		return nil, err
	}
	l.SetParam("order", l.q)

	l.LogInfo("Engine created",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseSetup,
		log.SamplesKey, len(x),
		log.OrderKey, l.q,
	)
	return l, nil
}

// Len returns the number of samples.
func (l *LocalPolynomial1D) Len() int {
	return len(l.xdata)
}

// Order returns the polynomial order q.
func (l *LocalPolynomial1D) Order() int {
	return l.q
}

// Covariance returns the kernel variance.
func (l *LocalPolynomial1D) Covariance() float64 {
	return l.cov.Covariance().At(0, 0)
}

// SetCovariance replaces the kernel variance.
func (l *LocalPolynomial1D) SetCovariance(cov Covariance) (err error) {
	defer errors.Recover(&err, "LocalPolynomial1D.SetCovariance")
	return l.cov.Set(cov, tensor.RowVector(l.xdata), l.ydata)
}

// Bandwidth returns the kernel bandwidth h.
func (l *LocalPolynomial1D) Bandwidth() float64 {
	return l.cov.ScalarBandwidth()
}

// Evaluate returns the local-polynomial fit at each point. It fails with a
// NumericalError when the weighted normal matrix of a point is singular, for
// instance when fewer than q+1 distinct samples carry weight.
func (l *LocalPolynomial1D) Evaluate(points []float64) ([]float64, error) {
	return l.EvaluateTo(nil, points)
}

// EvaluateTo is Evaluate writing into dst, which must be nil or hold one
// value per point.
func (l *LocalPolynomial1D) EvaluateTo(dst, points []float64) (_ []float64, err error) {
	const op = "LocalPolynomial1D.Evaluate"
	defer errors.Recover(&err, op)

	out, err := output(op, dst, len(points))
	if err != nil {
		return nil, err
	}
	bw := l.Bandwidth()
	if err := checkBandwidth(op, bw); err != nil {
		return nil, err
	}

	startTime := time.Now()
	frac := factorials(l.q)
	err = parallel.ParallelizeWithThresholdErr(len(points), l.parallelThreshold, func(start, end int) error {
		return l.evaluateRange(out, points, bw, frac, start, end)
	})
	if err != nil {
		l.LogError("Evaluation failed", err, log.OperationKey, log.OperationEvaluate)
		return nil, err
	}

	l.LogDebug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseInference,
		log.PointsKey, len(points),
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)
	return out, nil
}

func (l *LocalPolynomial1D) evaluateRange(out, points []float64, bw float64, frac []float64, start, end int) error {
	n, m := len(l.xdata), l.q+1

	dx := make([]float64, n)
	z := mat.NewDense(1, n, nil)
	w := make([]float64, n)
	xx := mat.NewDense(n, m, nil)
	wxx := mat.NewDense(n, m, nil)
	var xwx mat.Dense
	rhs := mat.NewVecDense(m, nil)
	beta := mat.NewVecDense(m, nil)
	y := mat.NewVecDense(n, l.ydata)
	var lu mat.LU

	for j := start; j < end; j++ {
		tensor.Diff(dx, l.xdata, points[j])
		zr := z.RawRowView(0)
		for i, v := range dx {
			zr[i] = v / bw
		}
		w = l.kernel(z, w)

		for i, v := range dx {
			row := xx.RawRowView(i)
			wrow := wxx.RawRowView(i)
			pow := 1.0
			for k := 0; k < m; k++ {
				row[k] = pow / frac[k]
				wrow[k] = w[i] * row[k]
				pow *= v
			}
		}
		xwx.Mul(xx.T(), wxx)
		rhs.MulVec(wxx.T(), y)

		a0, err := solveIntercept(&lu, &xwx, rhs, beta)
		if err != nil {
			return errors.NewPointNumericalError("LocalPolynomial1D.Evaluate", j, err)
		}
		out[j] = a0
	}
	return nil
}

// Score returns the coefficient of determination of the predictions at
// points against y.
func (l *LocalPolynomial1D) Score(points, y []float64) (float64, error) {
	pred, err := l.Evaluate(points)
	if err != nil {
		return 0, err
	}
	return score("LocalPolynomial1D.Score", pred, y)
}
