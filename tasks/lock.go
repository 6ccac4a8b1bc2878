// package tasks holds the benchmark workloads exposed by the HTTP service:
// the shared/weak pointer lifecycle, slice compaction variants and a
// container lookup comparison.
package tasks

import (
	"sync"

	"github.com/vanaluk/sharedptr"
	"github.com/vanaluk/sharedptr/bench"
)

// LockCycle runs the full owner/observer/upgrade lifecycle the given number
// of times and returns total elapsed nanoseconds. With more than one worker
// the iterations are split evenly, one disjoint range per goroutine, and all
// workers are joined before the clock stops.
func LockCycle(iterations, workers int) int64 {
	var t bench.Timer
	t.Start()

	if workers <= 1 {
		lockCycleLoop(iterations)
	} else {
		var wg sync.WaitGroup
		wg.Add(workers)
		perWorker := iterations / workers
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				lockCycleLoop(perWorker)
			}()
		}
		wg.Wait()
	}
	return t.ElapsedNanoseconds()
}

func lockCycleLoop(n int) {
	for i := 0; i < n; i++ {
		owner := sharedptr.New(i)
		weak := owner.Downgrade()
		if locked := weak.Lock(); locked != nil {
			locked.Release()
		}
		weak.Release()
		owner.Release()
	}
}

// ContendedLock upgrades one shared observer from every worker in a tight
// loop, measuring the contended fast path of Weak.Lock. It returns total
// elapsed nanoseconds for iterations upgrades spread across the workers.
func ContendedLock(iterations, workers int) int64 {
	owner := sharedptr.New(0)
	weak := owner.Downgrade()
	defer owner.Release()
	defer weak.Release()

	if workers <= 0 {
		workers = 1
	}

	var t bench.Timer
	t.Start()

	var wg sync.WaitGroup
	wg.Add(workers)
	perWorker := iterations / workers
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if locked := weak.Lock(); locked != nil {
					locked.Release()
				}
			}
		}()
	}
	wg.Wait()

	return t.ElapsedNanoseconds()
}
