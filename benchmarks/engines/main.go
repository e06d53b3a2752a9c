package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/metrics"
	"github.com/ezoic/kernsmooth/pkg/log"
	"github.com/ezoic/kernsmooth/smoothing"
)

// BenchmarkResult is one engine run.
type BenchmarkResult struct {
	Engine      string
	Samples     int
	Dimension   int
	Points      int
	Duration    time.Duration
	Throughput  float64 // points/second
	MemoryUsage float64 // MB
	R2          float64
}

func main() {
	log.SetupLogger("warn")

	fmt.Println("=== kernsmooth Engine Benchmarks ===")

	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	datasets := []struct {
		name    string
		samples int
		points  int
	}{
		{"Small", 500, 200},
		{"Medium", 2000, 1000},
		{"Large", 10000, 2000},
	}

	results := []BenchmarkResult{}
	for i, dataset := range datasets {
		fmt.Printf("\n%d. %s (%d samples, %d points)\n", i+1, dataset.name, dataset.samples, dataset.points)
		fmt.Println("-" + strings.Repeat("=", 49))

		for _, d := range []int{1, 2} {
			x, y := generateRegressionData(d, dataset.samples, 42, 0.1)
			px, py := generateRegressionData(d, dataset.points, 7, 0)

			batch := []BenchmarkResult{
				run("SpatialAverage", d, dataset.samples, py, func() ([]float64, error) {
					e, err := smoothing.NewSpatialAverage(x, y)
					if err != nil {
						return nil, err
					}
					return e.Evaluate(px)
				}),
				run("LocalPolynomial (q=2)", d, dataset.samples, py, func() ([]float64, error) {
					e, err := smoothing.NewLocalPolynomial(x, y, smoothing.WithOrder(2))
					if err != nil {
						return nil, err
					}
					return e.Evaluate(px)
				}),
			}
			if d == 1 {
				batch = append(batch,
					run("LocalLinear1D", d, dataset.samples, py, func() ([]float64, error) {
						e, err := smoothing.NewLocalLinear1D(x.RawRowView(0), y)
						if err != nil {
							return nil, err
						}
						return e.Evaluate(px.RawRowView(0))
					}),
					run("LocalPolynomial1D (q=3)", d, dataset.samples, py, func() ([]float64, error) {
						e, err := smoothing.NewLocalPolynomial1D(x.RawRowView(0), y)
						if err != nil {
							return nil, err
						}
						return e.Evaluate(px.RawRowView(0))
					}),
				)
			}

			for _, r := range batch {
				fmt.Printf("  d=%d %-24s %10.0f points/sec, R²=%.3f\n", d, r.Engine, r.Throughput, r.R2)
			}
			results = append(results, batch...)
		}
	}

	runtime.GC()
	runtime.ReadMemStats(&m2)

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	printResults(results)

	fmt.Printf("\nTotal Memory Used: %.2f MB\n", float64(m2.TotalAlloc-m1.TotalAlloc)/(1024*1024))
	fmt.Printf("System Memory Usage: %.2f MB\n", float64(m2.Sys)/(1024*1024))
}

// run times fit, which builds an engine and evaluates it at the query
// points, and scores the result against the noise-free response.
func run(engine string, d, samples int, truth []float64, fit func() ([]float64, error)) BenchmarkResult {
	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	start := time.Now()
	pred, err := fit()
	duration := time.Since(start)

	runtime.GC()
	runtime.ReadMemStats(&m2)

	r2 := math.NaN()
	if err != nil {
		log.LogError(err, "Benchmark run failed")
	} else if s, err := metrics.R2Score(truth, pred); err == nil {
		r2 = s
	}

	return BenchmarkResult{
		Engine:      engine,
		Samples:     samples,
		Dimension:   d,
		Points:      len(truth),
		Duration:    duration,
		Throughput:  float64(len(truth)) / duration.Seconds(),
		MemoryUsage: float64(m2.TotalAlloc-m1.TotalAlloc) / (1024 * 1024),
		R2:          r2,
	}
}

// generateRegressionData draws n points uniformly in [-1, 1]^d with response
// Σ sin(3x_k) plus Gaussian noise of standard deviation noise.
func generateRegressionData(d, n int, seed uint64, noise float64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewPCG(seed, seed))

	x := mat.NewDense(d, n, nil)
	y := make([]float64, n)
	for j := 0; j < n; j++ {
		var target float64
		for k := 0; k < d; k++ {
			v := rng.Float64()*2 - 1
			x.Set(k, j, v)
			target += math.Sin(3 * v)
		}
		y[j] = target + noise*rng.NormFloat64()
	}
	return x, y
}

func printResults(results []BenchmarkResult) {
	fmt.Printf("%-26s %8s %4s %8s %12s %15s %10s %8s\n",
		"Engine", "Samples", "d", "Points", "Duration", "Throughput", "Memory", "R²")
	fmt.Println(strings.Repeat("-", 100))

	for _, r := range results {
		fmt.Printf("%-26s %8d %4d %8d %12s %15.0f %10.2f %8.3f\n",
			r.Engine,
			r.Samples,
			r.Dimension,
			r.Points,
			r.Duration.Truncate(time.Millisecond),
			r.Throughput,
			r.MemoryUsage,
			r.R2)
	}
}
