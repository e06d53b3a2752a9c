// Package preprocessing rescales the explanatory variables of a sample set.
//
// The smoothing engines use a single kernel covariance for all coordinates,
// so coordinates measured on very different scales are best brought to a
// common one first:
//
//   - StandardScaler: removes the mean and scales to unit variance
//   - MinMaxScaler: maps each coordinate to a given range
//
// Both work on d×N matrices with one observation per column, the layout of
// the smoothing package, and compute one statistic per row.
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	xs, err := scaler.FitTransform(xdata)
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine, err := smoothing.NewSpatialAverage(xs, ydata)
//	grid, err := scaler.Transform(points)
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

// StandardScaler standardizes each coordinate to mean 0 and standard
// deviation 1.
type StandardScaler struct {
	// Mean is the mean of each coordinate.
	Mean []float64

	// Scale is the population standard deviation of each coordinate.
	Scale []float64

	// NFeatures is the dimension d seen by Fit.
	NFeatures int

	// WithMean subtracts the mean (default: true).
	WithMean bool

	// WithStd divides by the standard deviation (default: true).
	WithStd bool

	fitted bool
}

// NewStandardScaler creates a new StandardScaler.
//
// Parameters:
//   - withMean: whether to center each coordinate at zero
//   - withStd: whether to scale each coordinate to unit variance
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the mean and standard deviation of each row of X (d×N).
// Coordinates with a standard deviation below 1e-8 keep a scale of 1.
//
// Errors:
//   - ErrEmptyData: if X is empty
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "StandardScaler.Fit")
	d, n := X.Dims()
	if d == 0 || n == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = d
	s.Mean = make([]float64, d)
	s.Scale = make([]float64, d)

	row := make([]float64, n)
	for i := 0; i < d; i++ {
		mat.Row(row, i, X)
		mean, std := stat.PopMeanStdDev(row, nil)
		if s.WithMean {
			s.Mean[i] = mean
		}
		s.Scale[i] = 1
		if s.WithStd && std >= 1e-8 {
			s.Scale[i] = std
		}
	}

	s.fitted = true
	return nil
}

// Transform returns (X - mean) / scale for X with NFeatures rows.
//
// Errors:
//   - ErrInvalidValue: if the scaler hasn't been fitted yet
//   - ErrDimensionMismatch: if X doesn't have NFeatures rows
func (s *StandardScaler) Transform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.Transform")
	if err := s.check("StandardScaler.Transform", X); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < s.NFeatures; i++ {
		row := result.RawRowView(i)
		floats.AddConst(-s.Mean[i], row)
		floats.Scale(1/s.Scale[i], row)
	}
	return result, nil
}

// FitTransform fits the scaler on X and transforms it.
func (s *StandardScaler) FitTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.FitTransform")
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform returns X·scale + mean.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "StandardScaler.InverseTransform")
	if err := s.check("StandardScaler.InverseTransform", X); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < s.NFeatures; i++ {
		row := result.RawRowView(i)
		floats.Scale(s.Scale[i], row)
		floats.AddConst(s.Mean[i], row)
	}
	return result, nil
}

func (s *StandardScaler) check(op string, X mat.Matrix) error {
	if !s.fitted {
		return errors.NewValueError(op, "scaler is not fitted")
	}
	if d, _ := X.Dims(); d != s.NFeatures {
		return errors.NewDimensionError(op, s.NFeatures, d, 0)
	}
	return nil
}

// GetParams returns the scaler parameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String returns a description of the scaler.
func (s *StandardScaler) String() string {
	if !s.fitted {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler maps each coordinate linearly onto FeatureRange.
type MinMaxScaler struct {
	// Min and Max are the extremes of each coordinate seen by Fit.
	Min []float64
	Max []float64

	// FeatureRange is the target range (default: [0, 1]).
	FeatureRange [2]float64

	// NFeatures is the dimension d seen by Fit.
	NFeatures int

	fitted bool
}

// NewMinMaxScaler creates a MinMaxScaler onto featureRange.
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{FeatureRange: featureRange}
}

// NewMinMaxScalerDefault creates a MinMaxScaler onto [0, 1].
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit records the minimum and maximum of each row of X (d×N).
//
// Errors:
//   - ErrEmptyData: if X is empty
//   - ErrInvalidValue: if the feature range is empty or reversed
func (m *MinMaxScaler) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "MinMaxScaler.Fit")
	if !(m.FeatureRange[0] < m.FeatureRange[1]) {
		return errors.NewValueError("MinMaxScaler.Fit", "feature range minimum must be below its maximum")
	}
	d, n := X.Dims()
	if d == 0 || n == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	m.NFeatures = d
	m.Min = make([]float64, d)
	m.Max = make([]float64, d)
	row := make([]float64, n)
	for i := 0; i < d; i++ {
		mat.Row(row, i, X)
		m.Min[i] = floats.Min(row)
		m.Max[i] = floats.Max(row)
	}

	m.fitted = true
	return nil
}

// scale returns the factor and offset mapping row i onto the feature range.
// Constant rows map to the lower end of the range.
func (m *MinMaxScaler) scale(i int) (factor, offset float64) {
	span := m.Max[i] - m.Min[i]
	if span == 0 || math.IsNaN(span) {
		return 0, m.FeatureRange[0]
	}
	factor = (m.FeatureRange[1] - m.FeatureRange[0]) / span
	return factor, m.FeatureRange[0] - m.Min[i]*factor
}

// Transform maps X onto the feature range.
func (m *MinMaxScaler) Transform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "MinMaxScaler.Transform")
	if err := m.check("MinMaxScaler.Transform", X); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < m.NFeatures; i++ {
		factor, offset := m.scale(i)
		row := result.RawRowView(i)
		floats.Scale(factor, row)
		floats.AddConst(offset, row)
	}
	return result, nil
}

// FitTransform fits the scaler on X and transforms it.
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "MinMaxScaler.FitTransform")
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform maps X from the feature range back to the original
// scale. Constant rows map back to their value.
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "MinMaxScaler.InverseTransform")
	if err := m.check("MinMaxScaler.InverseTransform", X); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < m.NFeatures; i++ {
		row := result.RawRowView(i)
		factor, offset := m.scale(i)
		if factor == 0 {
			for k := range row {
				row[k] = m.Min[i]
			}
			continue
		}
		floats.AddConst(-offset, row)
		floats.Scale(1/factor, row)
	}
	return result, nil
}

func (m *MinMaxScaler) check(op string, X mat.Matrix) error {
	if !m.fitted {
		return errors.NewValueError(op, "scaler is not fitted")
	}
	if d, _ := X.Dims(); d != m.NFeatures {
		return errors.NewDimensionError(op, m.NFeatures, d, 0)
	}
	return nil
}

// GetParams returns the scaler parameters.
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// String returns a description of the scaler.
func (m *MinMaxScaler) String() string {
	if !m.fitted {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%g, %g])", m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%g, %g], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
