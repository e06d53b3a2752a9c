package smoothing

import (
	"github.com/ezoic/kernsmooth/bandwidth"
	"github.com/ezoic/kernsmooth/kernels"
	"github.com/ezoic/kernsmooth/pkg/log"
)

// DefaultOrder is the polynomial order of the local-polynomial engines.
const DefaultOrder = 3

// DefaultParallelThreshold is the number of query points from which
// evaluation is split across goroutines.
const DefaultParallelThreshold = 256

type config struct {
	order             int
	kernel            kernels.Kernel
	covariance        Covariance
	solver            LinearSolver
	parallelThreshold int
	logger            log.Logger
}

func defaultConfig() config {
	return config{
		order:             DefaultOrder,
		covariance:        Estimated(bandwidth.Scott),
		solver:            SolveLocalLinear,
		parallelThreshold: DefaultParallelThreshold,
	}
}

func newConfig(options []Option) config {
	cfg := defaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Option configures an engine.
type Option func(*config)

// WithOrder sets the order q of the local polynomial. Ignored by the
// spatial average and the local-linear engine.
func WithOrder(q int) Option {
	return func(c *config) {
		c.order = q
	}
}

// WithKernel sets the kernel. The default is kernels.Normal(d). The
// spatial average and the local-linear engine always use a Gaussian.
func WithKernel(k kernels.Kernel) Option {
	return func(c *config) {
		c.kernel = k
	}
}

// WithCovariance sets the kernel covariance. The default is
// Estimated(bandwidth.Scott).
func WithCovariance(cov Covariance) Option {
	return func(c *config) {
		c.covariance = cov
	}
}

// WithLinearSolver replaces the routine used by LocalLinear1D.
func WithLinearSolver(s LinearSolver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithParallelThreshold sets the number of query points from which
// evaluation runs in parallel. Use a negative value to always parallelise and
// a very large one to never do so.
func WithParallelThreshold(n int) Option {
	return func(c *config) {
		c.parallelThreshold = n
	}
}

// WithLogger sets the logger of the engine.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
