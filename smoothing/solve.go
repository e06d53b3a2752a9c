package smoothing

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveIntercept solves a·β = b through lu and returns β[0]. Matrices whose
// condition number exceeds mat.ConditionTolerance are reported as singular
// before any solve is attempted.
func solveIntercept(lu *mat.LU, a mat.Matrix, b mat.Vector, beta *mat.VecDense) (float64, error) {
	lu.Factorize(a)
	cond := lu.Cond()
	if math.IsNaN(cond) || math.IsInf(cond, 1) || cond > mat.ConditionTolerance {
		return 0, mat.Condition(cond)
	}
	if err := lu.SolveVecTo(beta, false, b); err != nil {
		return 0, err
	}
	return beta.AtVec(0), nil
}

// factorials returns k! for k = 0..q.
func factorials(q int) []float64 {
	out := make([]float64, q+1)
	out[0] = 1
	for k := 1; k <= q; k++ {
		out[k] = out[k-1] * float64(k)
	}
	return out
}
