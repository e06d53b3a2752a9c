// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"

	"github.com/ezoic/kernsmooth/pkg/errors"
)

// Parallelize runs fn over [0, n) split into one contiguous chunk per CPU.
// A panic in a worker is raised again in the calling goroutine.
func Parallelize(n int, fn func(start, end int)) {
	err := ParallelizeErr(n, func(start, end int) error {
		fn(start, end)
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// ParallelizeWithThreshold runs fn sequentially when n < threshold and in
// parallel otherwise.
func ParallelizeWithThreshold(n, threshold int, fn func(start, end int)) {
	if n < threshold {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	Parallelize(n, fn)
}

// ParallelizeErr runs fn over [0, n) in contiguous chunks and returns the
// error of the lowest failing chunk, so the result matches a sequential run
// that stops at the first failure. A panic in a worker becomes that chunk's
// error.
func ParallelizeErr(n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return fn(0, n)
	}

	chunk := (n + workers - 1) / workers
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			defer errors.Recover(&errs[w], "parallel")
			errs[w] = fn(start, end)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ParallelizeWithThresholdErr is ParallelizeErr with a sequential fallback
// below threshold.
func ParallelizeWithThresholdErr(n, threshold int, fn func(start, end int) error) error {
	if n < threshold {
		if n <= 0 {
			return nil
		}
		return fn(0, n)
	}
	return ParallelizeErr(n, fn)
}
