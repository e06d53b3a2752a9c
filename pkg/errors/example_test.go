package errors_test

import (
	"errors"
	"fmt"

	kerrors "github.com/ezoic/kernsmooth/pkg/errors"
)

// Example_customErrorTypes demonstrates custom error type handling
func Example_customErrorTypes() {
	dimErr := kerrors.NewDimensionError("LocalPolynomial.Evaluate", 2, 3, 0)

	wrappedErr := fmt.Errorf("smoothing failed: %w", dimErr)

	var dimensionErr *kerrors.DimensionError
	if errors.As(wrappedErr, &dimensionErr) {
		fmt.Printf("Dimension error: expected %d, got %d\n",
			dimensionErr.Expected, dimensionErr.Got)
	}

	// Output: Dimension error: expected 2, got 3
}

// Example_numericalError demonstrates how a failed local solve is reported
func Example_numericalError() {
	err := kerrors.NewPointNumericalError("LocalPolynomial1D.Evaluate", 7, nil)

	if errors.Is(err, kerrors.ErrSingularMatrix) {
		fmt.Println(err)
	}

	// Output: kernsmooth: LocalPolynomial1D.Evaluate: singular normal matrix at point 7
}

// Example_errorLogging demonstrates the message format of a wrapped model error
func Example_errorLogging() {
	baseErr := kerrors.NewModelError("SpatialAverage", "no training samples", kerrors.ErrEmptyData)

	opErr := fmt.Errorf("density correction: %w", baseErr)

	fmt.Printf("Error occurred: %v\n", opErr)

	// Output: Error occurred: density correction: kernsmooth: SpatialAverage: no training samples: empty data
}
