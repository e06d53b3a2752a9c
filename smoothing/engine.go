package smoothing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/core/tensor"
	"github.com/ezoic/kernsmooth/metrics"
	"github.com/ezoic/kernsmooth/pkg/errors"
)

// checkSamples validates and copies a d×N sample set.
func checkSamples(op string, xdata mat.Matrix, ydata []float64) (*mat.Dense, []float64, error) {
	if xdata == nil {
		return nil, nil, errors.NewModelError(op, "nil xdata", errors.ErrEmptyData)
	}
	d, n := xdata.Dims()
	if d == 0 || n == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(ydata) != n {
		return nil, nil, errors.NewDimensionError(op, n, len(ydata), 1)
	}
	return mat.DenseCopyOf(xdata), tensor.Clone(ydata), nil
}

// checkSamples1D validates and copies a one-dimensional sample set.
func checkSamples1D(op string, xdata, ydata []float64) ([]float64, []float64, error) {
	if len(xdata) == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(ydata) != len(xdata) {
		return nil, nil, errors.NewDimensionError(op, len(xdata), len(ydata), 1)
	}
	return tensor.Clone(xdata), tensor.Clone(ydata), nil
}

// checkPoints validates a d×M query matrix and returns M.
func checkPoints(op string, points mat.Matrix, d int) (int, error) {
	if points == nil {
		return 0, errors.NewValueError(op, "nil points")
	}
	pd, m := points.Dims()
	if m == 0 {
		return 0, nil
	}
	if pd != d {
		return 0, errors.NewDimensionError(op, d, pd, 0)
	}
	return m, nil
}

// output returns dst when it holds exactly m values, or a new slice.
func output(op string, dst []float64, m int) ([]float64, error) {
	if dst == nil {
		return make([]float64, m), nil
	}
	if len(dst) != m {
		return nil, errors.NewDimensionError(op, m, len(dst), 0)
	}
	return dst, nil
}

func checkBandwidth(op string, bw float64) error {
	if bw <= 0 || math.IsNaN(bw) || math.IsInf(bw, 0) {
		return errors.NewNumericalError(op, "bandwidth must be positive and finite", nil)
	}
	return nil
}

// score returns the coefficient of determination of pred against y.
func score(op string, pred, y []float64) (float64, error) {
	if len(pred) != len(y) {
		return 0, errors.NewDimensionError(op, len(pred), len(y), 0)
	}
	return metrics.R2Score(y, pred)
}

// offsetPoint shifts the point index of a NumericalError raised for a chunk
// starting at start.
func offsetPoint(err error, start int) error {
	var numErr *errors.NumericalError
	if errors.As(err, &numErr) && numErr.Index >= 0 {
		numErr.Index += start
	}
	return err
}
