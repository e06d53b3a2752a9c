// Package kernels defines the weighting functions used by the smoothing
// engines.
//
// A Kernel receives a d×N matrix of scaled differences (one column per
// training sample) and returns one weight per column. The default is the
// standard normal density in d dimensions.
package kernels

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kernel maps scaled differences z (d×N) to N weights. The result is written
// to dst when it has length N, otherwise a new slice is allocated.
type Kernel func(z mat.Matrix, dst []float64) []float64

// Normal returns the standard normal density in d dimensions,
// K(z) = (2π)^(-d/2) exp(-|z|²/2). z must have d rows.
func Normal(d int) Kernel {
	if d == 1 {
		return Product(distuv.UnitNormal.Prob)
	}
	norm := math.Pow(distuv.UnitNormal.Prob(0), float64(d))
	return func(z mat.Matrix, dst []float64) []float64 {
		_, c := z.Dims()
		dst = resize(dst, c)
		for j := 0; j < c; j++ {
			var sq float64
			for i := 0; i < d; i++ {
				v := z.At(i, j)
				sq += v * v
			}
			dst[j] = norm * math.Exp(-0.5*sq)
		}
		return dst
	}
}

// Product builds a d-dimensional kernel from a one-dimensional one,
// K(z) = Π_k f(z_k). With d = 1 it applies f elementwise.
func Product(f func(float64) float64) Kernel {
	return func(z mat.Matrix, dst []float64) []float64 {
		r, c := z.Dims()
		dst = resize(dst, c)
		for j := 0; j < c; j++ {
			w := 1.0
			for i := 0; i < r; i++ {
				w *= f(z.At(i, j))
			}
			dst[j] = w
		}
		return dst
	}
}

func resize(dst []float64, n int) []float64 {
	if len(dst) != n {
		return make([]float64, n)
	}
	return dst
}
