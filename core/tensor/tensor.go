// Package tensor holds the shape helpers shared by the smoothing engines.
//
// Samples are stored column-wise: a d×N matrix holds N observations of a
// d-dimensional variable. The helpers here normalise caller input to that
// layout and perform the broadcast operations numpy would do implicitly.
package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

// RowVector copies v into a 1×len(v) matrix.
func RowVector(v []float64) *mat.Dense {
	data := make([]float64, len(v))
	copy(data, v)
	return mat.NewDense(1, len(v), data)
}

// Clone returns a copy of v.
func Clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Column copies column j of m into dst, allocating when dst is too short.
func Column(m mat.Matrix, j int, dst []float64) []float64 {
	r, _ := m.Dims()
	if cap(dst) < r {
		dst = make([]float64, r)
	}
	dst = dst[:r]
	return mat.Col(dst, j, m)
}

// CenterColumns stores x - p into dst, subtracting p from every column of x.
// dst must have the shape of x and len(p) must equal its row count.
func CenterColumns(dst *mat.Dense, x *mat.Dense, p []float64) error {
	r, c := x.Dims()
	if len(p) != r {
		return errors.NewDimensionError("CenterColumns", r, len(p), 0)
	}
	if dr, dc := dst.Dims(); dr != r || dc != c {
		return errors.NewDimensionError("CenterColumns", c, dc, 1)
	}
	for i := 0; i < r; i++ {
		src := x.RawRowView(i)
		out := dst.RawRowView(i)
		for j, v := range src {
			out[j] = v - p[i]
		}
	}
	return nil
}

// Diff stores x - p into dst for scalar samples.
func Diff(dst, x []float64, p float64) {
	for i, v := range x {
		dst[i] = v - p
	}
}
