package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{3, -0.5, 2, 7}
	yPred := []float64{2.5, 0.0, 2, 8}

	tests := []struct {
		name string
		fn   func(a, b []float64) (float64, error)
		want float64
	}{
		{"MSE", MSE, 0.375},
		{"RMSE", RMSE, 0.6123724356957945},
		{"MAE", MAE, 0.5},
		{"R2Score", R2Score, 0.9486081370449679},
		{"ExplainedVarianceScore", ExplainedVarianceScore, 0.9571734475374732},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(yTrue, yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRegressionMetricsErrors(t *testing.T) {
	fns := map[string]func(a, b []float64) (float64, error){
		"MSE":                    MSE,
		"RMSE":                   RMSE,
		"MAE":                    MAE,
		"R2Score":                R2Score,
		"MAPE":                   MAPE,
		"ExplainedVarianceScore": ExplainedVarianceScore,
	}

	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			_, err := fn(nil, nil)
			assert.ErrorIs(t, err, errors.ErrEmptyData)

			_, err = fn([]float64{1, 2}, []float64{1})
			assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
		})
	}
}

func TestR2ScoreConstantTarget(t *testing.T) {
	_, err := R2Score([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, errors.ErrInvalidValue)
}

func TestMAPESkipsZeros(t *testing.T) {
	got, err := MAPE([]float64{0, 10}, []float64{5, 11})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)

	_, err = MAPE([]float64{0, 0}, []float64{1, 1})
	assert.ErrorIs(t, err, errors.ErrInvalidValue)
}
