// Package metrics provides goodness-of-fit measures for the smoothing
// engines.
//
// Regression Metrics:
//   - MSE: Mean Squared Error
//   - RMSE: Root Mean Squared Error (square root of MSE)
//   - MAE: Mean Absolute Error
//   - R2Score: coefficient of determination
//   - MAPE: Mean Absolute Percentage Error
//   - ExplainedVarianceScore: proportion of variance explained by the fit
//
// Every metric takes the observed values first and the fitted values
// second, both as plain slices of equal, non-zero length.
//
// Example usage:
//
//	fit, _ := engine.Evaluate(x)
//	r2, err := metrics.R2Score(y, fit)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewModelError(op, "empty vector", errors.ErrEmptyData)
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// residuals returns yTrue - yPred.
func residuals(yTrue, yPred []float64) []float64 {
	return floats.SubTo(make([]float64, len(yTrue)), yTrue, yPred)
}

// MSE calculates the Mean Squared Error between true and predicted values.
//
// Errors:
//   - ErrEmptyData: if input vectors are empty
//   - ErrDimensionMismatch: if yTrue and yPred have different lengths
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	r := residuals(yTrue, yPred)
	return floats.Dot(r, r) / float64(len(r)), nil
}

// RMSE is the square root of MSE, in the units of the response.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error. It is less sensitive to outliers
// than MSE.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}

// R2Score calculates the coefficient of determination, 1 - RSS/TSS.
//
// The best possible score is 1.0; a fit no better than the mean scores 0 and
// worse fits score negative values.
//
// Errors:
//   - ErrEmptyData: if input vectors are empty
//   - ErrDimensionMismatch: if yTrue and yPred have different lengths
//   - ErrInvalidValue: if all yTrue values are identical (no variance)
func R2Score(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}
	mean := stat.Mean(yTrue, nil)
	var tss float64
	for _, v := range yTrue {
		tss += (v - mean) * (v - mean)
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	r := residuals(yTrue, yPred)
	return 1 - floats.Dot(r, r)/tss, nil
}

// MAPE calculates the Mean Absolute Percentage Error over the observations
// whose true value is non-zero.
func MAPE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAPE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	valid := 0
	for i, v := range yTrue {
		if v == 0 {
			continue
		}
		sum += math.Abs(v-yPred[i]) / math.Abs(v)
		valid++
	}
	if valid == 0 {
		return 0, errors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ExplainedVarianceScore returns 1 - Var(yTrue - yPred)/Var(yTrue). Unlike
// R2Score it ignores a constant offset of the fit.
func ExplainedVarianceScore(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("ExplainedVarianceScore", yTrue, yPred); err != nil {
		return 0, err
	}
	_, varTrue := stat.PopMeanVariance(yTrue, nil)
	if varTrue == 0 {
		return 0, errors.NewValueError("ExplainedVarianceScore", "no variance in yTrue")
	}
	_, varDiff := stat.PopMeanVariance(residuals(yTrue, yPred), nil)
	return 1 - varDiff/varTrue, nil
}
