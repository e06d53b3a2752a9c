package preprocessing_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/preprocessing"
)

// ExampleStandardScaler demonstrates basic usage of StandardScaler
func ExampleStandardScaler() {
	// Two coordinates, four samples (one per column)
	X := mat.NewDense(2, 4, []float64{
		1.0, 3.0, 5.0, 7.0,
		2.0, 4.0, 6.0, 8.0,
	})

	scaler := preprocessing.NewStandardScaler(true, true)
	if err := scaler.Fit(X); err != nil {
		// Skip this example if error occurs
		return
	}

	scaled, err := scaler.Transform(X)
	if err != nil {
		return
	}

	fmt.Printf("Scaled first sample: [%.2f, %.2f]\n", scaled.At(0, 0), scaled.At(1, 0))

	// Output: Scaled first sample: [-1.34, -1.34]
}

// ExampleMinMaxScaler demonstrates scaling coordinates to [0, 1]
func ExampleMinMaxScaler() {
	X := mat.NewDense(2, 3, []float64{
		10.0, 20.0, 30.0,
		100.0, 300.0, 200.0,
	})

	scaler := preprocessing.NewMinMaxScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return
	}

	fmt.Printf("Row 1: %v\n", mat.Row(nil, 0, scaled))
	fmt.Printf("Row 2: %v\n", mat.Row(nil, 1, scaled))

	// Output: Row 1: [0 0.5 1]
	// Row 2: [0 1 0.5]
}
