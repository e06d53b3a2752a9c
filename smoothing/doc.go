// Package smoothing implements non-parametric kernel regression.
//
// Four engines estimate E[Y | X = x] from samples (X_i, Y_i):
//
//   - SpatialAverage: the Nadaraya-Watson (local-constant) estimator with a
//     Gaussian kernel, in any dimension, with optional per-sample kernel
//     corrections.
//   - LocalLinear1D: the one-dimensional local-linear estimator, solved in
//     closed form by a replaceable LinearSolver.
//   - LocalPolynomial1D: the one-dimensional local-polynomial estimator of any
//     order with an arbitrary kernel.
//   - LocalPolynomial: the d-dimensional local-polynomial estimator built on
//     DesignMatrix.
//
// Multi-dimensional samples are d×N matrices with one observation per
// column; query points follow the same layout. The kernel covariance of every
// engine is chosen with a Covariance value (Fixed, Scalar or Estimated) and
// defaults to Scott's rule.
//
// Example usage:
//
//	lp, err := smoothing.NewLocalPolynomial1D(x, y, smoothing.WithOrder(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fit, err := lp.Evaluate(grid)
//
// Evaluation of many points is split across goroutines inside a single call.
// Engines cache derived quantities and are not safe for concurrent use.
package smoothing
