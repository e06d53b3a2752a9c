package smoothing

import (
	"math"
	"time"

	"github.com/ezoic/kernsmooth/core/model"
	"github.com/ezoic/kernsmooth/core/parallel"
	"github.com/ezoic/kernsmooth/core/tensor"
	"github.com/ezoic/kernsmooth/pkg/errors"
	"github.com/ezoic/kernsmooth/pkg/log"
)

// LinearSolver computes a one-dimensional local-linear fit with a Gaussian
// kernel of bandwidth bw. It returns the fitted value at each point and, for
// each point, the squared norm of the equivalent-kernel weights (li2). When
// out has len(points) values the fit is written into it.
type LinearSolver func(bw float64, xdata, ydata, points, out []float64) (li2, fitted []float64, err error)

// SolveLocalLinear is the default LinearSolver. For each point p it
// accumulates, with x0 = p - X_i and w_i = exp(-x0²/(2bw²)),
//
//	W = Σ w_i, X = Σ w_i x0, X2 = Σ w_i x0², Y = Σ w_i Y_i, Y2 = Σ w_i x0 Y_i
//
// and returns (X2·Y - Y2·X) / (W·X2 - X²), the intercept of the weighted
// least-squares line. The fit is Σ l_i Y_i with
// l_i = w_i (X2 - x0_i X) / (W·X2 - X²), and li2 = Σ l_i².
func SolveLocalLinear(bw float64, xdata, ydata, points, out []float64) (li2, fitted []float64, err error) {
	const op = "SolveLocalLinear"
	if len(xdata) != len(ydata) {
		return nil, nil, errors.NewDimensionError(op, len(xdata), len(ydata), 0)
	}
	if err := checkBandwidth(op, bw); err != nil {
		return nil, nil, err
	}
	if out, err = output(op, out, len(points)); err != nil {
		return nil, nil, err
	}
	li2 = make([]float64, len(points))

	inv2 := 1 / (2 * bw * bw)
	w := make([]float64, len(xdata))
	for j, p := range points {
		var sw, sx, sx2, sy, sy2 float64
		for i, xi := range xdata {
			x0 := p - xi
			wi := math.Exp(-x0 * x0 * inv2)
			w[i] = wi
			sw += wi
			sx += wi * x0
			sx2 += wi * x0 * x0
			sy += wi * ydata[i]
			sy2 += wi * x0 * ydata[i]
		}
		den := sw*sx2 - sx*sx
		if den == 0 || math.IsNaN(den) {
			return nil, nil, errors.NewPointNumericalError(op, j, nil)
		}
		out[j] = (sx2*sy - sy2*sx) / den

		var l2 float64
		for i, xi := range xdata {
			l := w[i] * (sx2 - (p-xi)*sx) / den
			l2 += l * l
		}
		li2[j] = l2
	}
	return li2, out, nil
}

// LocalLinear1D is a local-linear regression of a one-dimensional variable
// with a Gaussian kernel. At each point x it fits a0 + a1(x - X_i) by
// weighted least squares and returns a0.
//
// The solve is delegated to a LinearSolver. Besides the fit, each evaluation
// keeps the li2 diagnostic, the variance factor of the fitted values, which
// is available from LI2 until the next evaluation.
type LocalLinear1D struct {
	model.BaseEstimator

	xdata []float64
	ydata []float64

	cov               *CovarianceModel
	solver            LinearSolver
	parallelThreshold int

	li2 []float64
}

// NewLocalLinear1D creates a local-linear engine. The covariance is the
// kernel variance.
func NewLocalLinear1D(xdata, ydata []float64, options ...Option) (_ *LocalLinear1D, err error) {
	const op = "NewLocalLinear1D"
	defer errors.Recover(&err, op)

	x, y, err := checkSamples1D(op, xdata, ydata)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(options)
	if cfg.solver == nil {
		return nil, errors.NewValueError(op, "nil linear solver")
	}

	l := &LocalLinear1D{
		BaseEstimator:     model.NewBaseEstimator("LocalLinear1D", cfg.logger),
		xdata:             x,
		ydata:             y,
		cov:               NewCovarianceModel(1, false),
		solver:            cfg.solver,
		parallelThreshold: cfg.parallelThreshold,
	}
	if err := l.cov.Set(cfg.covariance, tensor.RowVector(x), y); err != nil {
		return nil, err
	}

	l.LogInfo("Engine created",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseSetup,
		log.SamplesKey, len(x),
	)
	return l, nil
}

// Len returns the number of samples.
func (l *LocalLinear1D) Len() int {
	return len(l.xdata)
}

// Covariance returns the kernel variance.
func (l *LocalLinear1D) Covariance() float64 {
	return l.cov.Covariance().At(0, 0)
}

// SetCovariance replaces the kernel variance.
func (l *LocalLinear1D) SetCovariance(cov Covariance) (err error) {
	defer errors.Recover(&err, "LocalLinear1D.SetCovariance")
	return l.cov.Set(cov, tensor.RowVector(l.xdata), l.ydata)
}

// Bandwidth returns the kernel standard deviation.
func (l *LocalLinear1D) Bandwidth() float64 {
	return l.cov.ScalarBandwidth()
}

// LI2 returns a copy of the li2 diagnostic of the last evaluation, or nil.
func (l *LocalLinear1D) LI2() []float64 {
	if l.li2 == nil {
		return nil
	}
	return tensor.Clone(l.li2)
}

// Evaluate returns the local-linear fit at each point.
func (l *LocalLinear1D) Evaluate(points []float64) ([]float64, error) {
	return l.EvaluateTo(nil, points)
}

// EvaluateTo is Evaluate writing into dst, which must be nil or hold one
// value per point.
func (l *LocalLinear1D) EvaluateTo(dst, points []float64) (_ []float64, err error) {
	const op = "LocalLinear1D.Evaluate"
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
	li2 := make([]float64, len(points))
	err = parallel.ParallelizeWithThresholdErr(len(points), l.parallelThreshold, func(start, end int) error {
		chunk, fitted, err := l.solver(bw, l.xdata, l.ydata, points[start:end], out[start:end])
		if err != nil {
			return offsetPoint(err, start)
		}
		if len(fitted) != end-start {
			return errors.NewDimensionError(op, end-start, len(fitted), 0)
		}
		if len(chunk) != end-start {
			return errors.NewDimensionError(op, end-start, len(chunk), 0)
		}
		copy(out[start:end], fitted)
		copy(li2[start:end], chunk)
		return nil
	})
	if err != nil {
		l.LogError("Evaluation failed", err, log.OperationKey, log.OperationEvaluate)
		return nil, err
	}
	l.li2 = li2

	l.LogDebug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseInference,
		log.PointsKey, len(points),
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)
	return out, nil
}

// Score returns the coefficient of determination of the predictions at
// points against y.
func (l *LocalLinear1D) Score(points, y []float64) (float64, error) {
	pred, err := l.Evaluate(points)
	if err != nil {
		return 0, err
	}
	return score("LocalLinear1D.Score", pred, y)
}
