package smoothing

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

// DesignMatrixSize returns the number of monomials of total degree 0 through
// degree in dim variables, which is the row count of DesignMatrix.
func DesignMatrixSize(dim, degree int) int {
	n, _ := designMatrixSize(dim, degree, false)
	return n
}

// DesignMatrixSizeFactors is DesignMatrixSize that also returns, for each
// row of the design matrix, the factorial of the row's total degree. Dividing
// the rows by these factors puts the fitted coefficients in Taylor form.
func DesignMatrixSizeFactors(dim, degree int) (int, []float64) {
	return designMatrixSize(dim, degree, true)
}

// designMatrixSize walks the degree levels the same way DesignMatrix does,
// counting rows instead of filling them.
func designMatrixSize(dim, degree int, withFactors bool) (int, []float64) {
	total := 1
	var factors []float64
	if withFactors {
		factors = []float64{1}
	}

	// start[j] is the offset, within the previous level, of the first row
	// that variable j multiplies.
	start := make([]int, dim)
	next := make([]int, dim)
	levelSize := 1
	fact := 1.0
	for deg := 1; deg <= degree; deg++ {
		fact *= float64(deg)
		count := 0
		for j := 0; j < dim; j++ {
			next[j] = count
			count += levelSize - start[j]
		}
		start, next = next, start
		levelSize = count
		total += count
		if withFactors {
			for k := 0; k < count; k++ {
				factors = append(factors, fact)
			}
		}
	}
	return total, factors
}

// DesignMatrix builds the polynomial design matrix of x, a dim×N matrix of
// points. The result is M×N with M = DesignMatrixSize(dim, degree): row 0 is
// constant, then each degree level lists the monomials in graded order, for
// example 1, x, y, x², xy, y² for two variables and degree 2.
//
// When factors is non-nil each row is divided by its factor. out is reused
// when non-nil; it must then be M×N.
func DesignMatrix(x mat.Matrix, degree int, factors []float64, out *mat.Dense) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "DesignMatrix")

	dim, n := x.Dims()
	if dim < 1 {
		return nil, errors.NewValueError("DesignMatrix", "points must have at least one dimension")
	}
	if n == 0 {
		return nil, errors.NewModelError("DesignMatrix", "no points", errors.ErrEmptyData)
	}
	if degree < 0 {
		return nil, errors.NewValueError("DesignMatrix", "degree must be non-negative")
	}
	size := DesignMatrixSize(dim, degree)
	if factors != nil && len(factors) != size {
		return nil, errors.NewDimensionError("DesignMatrix", size, len(factors), 0)
	}
	if out == nil {
		out = mat.NewDense(size, n, nil)
	} else if r, c := out.Dims(); r != size || c != n {
		return nil, errors.NewDimensionError("DesignMatrix", size, r, 0)
	}

	rows := make([][]float64, dim)
	for j := range rows {
		rows[j] = rowOf(x, j)
	}

	constant := out.RawRowView(0)
	for i := range constant {
		constant[i] = 1
	}

	start := make([]int, dim)
	next := make([]int, dim)
	levelEnd := 1
	cur := 1
	for deg := 1; deg <= degree; deg++ {
		for j := 0; j < dim; j++ {
			next[j] = cur
			for k := start[j]; k < levelEnd; k++ {
				floats.MulTo(out.RawRowView(cur), out.RawRowView(k), rows[j])
				cur++
			}
		}
		start, next = next, start
		levelEnd = cur
	}

	if factors != nil {
		for k, f := range factors {
			floats.Scale(1/f, out.RawRowView(k))
		}
	}
	return out, nil
}

// rowOf returns row i of m, without copying when m is a plain *mat.Dense.
func rowOf(m mat.Matrix, i int) []float64 {
	if d, ok := m.(*mat.Dense); ok {
		return d.RawRowView(i)
	}
	return mat.Row(nil, i, m)
}
