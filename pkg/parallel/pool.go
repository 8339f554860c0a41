// Package parallel runs index-range work across a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func()
)

// Pool executes submitted funcs on numWorkers goroutines. With a single
// worker Do runs inline and Wait is a no-op.
type Pool struct {
	wg   sync.WaitGroup
	Do   WorkerFunc
	Wait WaitFunc
}

// Start launches a pool; numWorkers < 1 means GOMAXPROCS.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}
		closeOnce := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() {
			closeOnce()
			pool.wg.Wait()
		}
	}

	return pool
}

// For splits [0,n) into contiguous ranges of at least minChunk elements and
// calls fn for each, returning after every range is done. Ranges never
// overlap so fn may write its slice of an output buffer without locking.
func For(n, workers, minChunk int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	chunks := min(workers, (n+minChunk-1)/minChunk)
	if chunks <= 1 {
		fn(0, n)
		return
	}

	pool := Start(chunks)
	size := (n + chunks - 1) / chunks
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		pool.Do(func() { fn(lo, hi) })
	}
	pool.Wait()
}
