package smoothing

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/core/model"
	"github.com/ezoic/kernsmooth/core/parallel"
	"github.com/ezoic/kernsmooth/core/tensor"
	"github.com/ezoic/kernsmooth/kde"
	"github.com/ezoic/kernsmooth/pkg/errors"
	"github.com/ezoic/kernsmooth/pkg/log"
)

// normEpsilon is the total kernel weight below which the spatial average
// leaves the accumulated sum undivided.
const normEpsilon = 1e-50

// SpatialAverage is a Nadaraya-Watson (local-constant) regression with a
// Gaussian kernel:
//
//	f(x) = Σ_i K(x - X_i) Y_i / Σ_i K(x - X_i)
//
// where K(z) = exp(-zᵀC⁻¹z/2) for the covariance C. The kernel width can be
// rescaled per sample with correction coefficients.
type SpatialAverage struct {
	model.BaseEstimator

	xdata *mat.Dense
	ydata []float64
	d, n  int

	cov               *CovarianceModel
	correction        []float64
	parallelThreshold int
}

// NewSpatialAverage creates a spatial average over xdata, a d×N matrix with
// one observation per column, and the N responses ydata. Only WithCovariance,
// WithParallelThreshold and WithLogger apply.
func NewSpatialAverage(xdata mat.Matrix, ydata []float64, options ...Option) (_ *SpatialAverage, err error) {
	const op = "NewSpatialAverage"
	defer errors.Recover(&err, op)

	x, y, err := checkSamples(op, xdata, ydata)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(options)
	d, n := x.Dims()

	s := &SpatialAverage{
		BaseEstimator:     model.NewBaseEstimator("SpatialAverage", cfg.logger),
		xdata:             x,
		ydata:             y,
		d:                 d,
		n:                 n,
		cov:               NewCovarianceModel(d, true),
		correction:        []float64{1},
		parallelThreshold: cfg.parallelThreshold,
	}
	if err := s.cov.Set(cfg.covariance, s.xdata, s.ydata); err != nil {
		return nil, err
	}
	s.SetParam("dimension", d)

	s.LogInfo("Engine created",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseSetup,
		log.SamplesKey, n,
		log.FeaturesKey, d,
	)
	return s, nil
}

// Dims returns the dimension d and the number of samples N.
func (s *SpatialAverage) Dims() (d, n int) {
	return s.d, s.n
}

// Covariance returns the kernel covariance.
func (s *SpatialAverage) Covariance() mat.Symmetric {
	return s.cov.Covariance()
}

// SetCovariance replaces the kernel covariance and clears the cached
// bandwidth. The covariance must be invertible.
func (s *SpatialAverage) SetCovariance(cov Covariance) (err error) {
	defer errors.Recover(&err, "SpatialAverage.SetCovariance")
	if err := s.cov.Set(cov, s.xdata, s.ydata); err != nil {
		s.LogError("Covariance assignment failed", err, log.OperationKey, log.OperationSetCov)
		return err
	}
	return nil
}

// Bandwidth returns the square root of the covariance.
func (s *SpatialAverage) Bandwidth() (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "SpatialAverage.Bandwidth")
	return s.cov.Bandwidth()
}

// Correction returns a copy of the correction coefficients.
func (s *SpatialAverage) Correction() []float64 {
	return tensor.Clone(s.correction)
}

// SetCorrection sets the correction coefficients: a single value scaling all
// samples, or one value per sample.
func (s *SpatialAverage) SetCorrection(c []float64) error {
	const op = "SpatialAverage.SetCorrection"
	if len(c) == 0 {
		return errors.NewValueError(op, "correction must not be empty")
	}
	if len(c) != 1 && len(c) != s.n {
		return errors.NewDimensionError(op, s.n, len(c), 0)
	}
	s.correction = tensor.Clone(c)
	return nil
}

// SetDensityCorrection sets one correction per sample from a Gaussian kernel
// density estimate of the training points: max(density)/density. The
// coefficient scales x_i - p, so samples in sparse regions get a narrower
// kernel. Samples whose density is below 1e-50 get a coefficient of 1.
func (s *SpatialAverage) SetDensityCorrection() (err error) {
	defer errors.Recover(&err, "SpatialAverage.SetDensityCorrection")

	est, err := kde.NewGaussian(s.xdata)
	if err != nil {
		return errors.Wrap(err, "density estimation failed")
	}
	dens, err := est.Evaluate(s.xdata)
	if err != nil {
		return err
	}
	dm := floats.Max(dens)
	for i, v := range dens {
		if v < normEpsilon {
			v = dm
		}
		dens[i] = dm / v
	}
	s.correction = dens

	s.LogDebug("Density correction set", log.OperationKey, log.OperationCorrect, log.SamplesKey, s.n)
	return nil
}

// Evaluate returns the spatial average at each column of points (d×M).
func (s *SpatialAverage) Evaluate(points mat.Matrix) ([]float64, error) {
	return s.EvaluateTo(nil, points)
}

// EvaluateTo is Evaluate writing into dst, which must be nil or hold one
// value per point.
func (s *SpatialAverage) EvaluateTo(dst []float64, points mat.Matrix) (_ []float64, err error) {
	const op = "SpatialAverage.Evaluate"
	defer errors.Recover(&err, op)

	m, err := checkPoints(op, points, s.d)
	if err != nil {
		return nil, err
	}
	result, err := output(op, dst, m)
	if err != nil {
		return nil, err
	}
	if m == 0 {
		return result, nil
	}
	inv, err := s.cov.Inverse()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	s.LogDebug("Evaluation started", log.OperationKey, log.OperationEvaluate, log.PointsKey, m)

	parallel.ParallelizeWithThreshold(m, s.parallelThreshold, func(start, end int) {
		s.evaluateRange(result, points, inv, start, end)
	})

	s.LogDebug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseInference,
		log.PointsKey, m,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)
	return result, nil
}

func (s *SpatialAverage) evaluateRange(result []float64, points mat.Matrix, inv mat.Matrix, start, end int) {
	p := make([]float64, s.d)
	diff := mat.NewVecDense(s.d, nil)
	broadcast := len(s.correction) == 1

	for j := start; j < end; j++ {
		mat.Col(p, j, points)
		var sum, norm float64
		for i := 0; i < s.n; i++ {
			c := s.correction[0]
			if !broadcast {
				c = s.correction[i]
			}
			for k := 0; k < s.d; k++ {
				diff.SetVec(k, c*(s.xdata.At(k, i)-p[k]))
			}
			energy := math.Exp(-mat.Inner(diff, inv, diff) / 2)
			sum += s.ydata[i] * energy
			norm += energy
		}
		if norm > normEpsilon {
			sum /= norm
		}
		result[j] = sum
	}
}

// Score returns the coefficient of determination of the predictions at
// points against y.
func (s *SpatialAverage) Score(points mat.Matrix, y []float64) (float64, error) {
	pred, err := s.Evaluate(points)
	if err != nil {
		return 0, err
	}
	return score("SpatialAverage.Score", pred, y)
}
