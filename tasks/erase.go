package tasks

import (
	"slices"
	"sync"

	"github.com/vanaluk/sharedptr/bench"
	"github.com/zeebo/pcg"
)

// An EraseFunc removes every element at an odd index from s and returns the
// compacted slice. The input may be mutated.
type EraseFunc func(s []int) []int

// EraseNaive deletes one element at a time, shifting the tail after every
// deletion. Quadratic in the slice length.
func EraseNaive(s []int) []int {
	for i := 1; i < len(s); i++ {
		s = append(s[:i], s[i+1:]...)
	}
	return s
}

// EraseInPlace compacts the keepers to the front in a single pass.
func EraseInPlace(s []int) []int {
	j := 0
	for i := 0; i < len(s); i += 2 {
		s[j] = s[i]
		j++
	}
	return s[:j]
}

// EraseCopy builds a fresh slice of the keepers, trading an allocation for
// leaving the input intact.
func EraseCopy(s []int) []int {
	out := make([]int, 0, (len(s)+1)/2)
	for i := 0; i < len(s); i += 2 {
		out = append(out, s[i])
	}
	return out
}

// EraseDeleteFunc tracks the original index through slices.DeleteFunc.
func EraseDeleteFunc(s []int) []int {
	i := -1
	return slices.DeleteFunc(s, func(int) bool {
		i++
		return i%2 == 1
	})
}

// EraseMethod pairs a compaction variant with its reporting name.
type EraseMethod struct {
	Name string
	Fn   EraseFunc
}

// EraseMethods lists every compaction variant in reporting order.
var EraseMethods = []EraseMethod{
	{Name: "naive", Fn: EraseNaive},
	{Name: "in_place", Fn: EraseInPlace},
	{Name: "copy", Fn: EraseCopy},
	{Name: "delete_func", Fn: EraseDeleteFunc},
}

// EraseBench times fn over the given number of iterations, each on a fresh
// slice of the given size filled with random values. Workers split the
// iteration count into disjoint ranges. It returns total elapsed
// nanoseconds, including the per-iteration refill.
func EraseBench(fn EraseFunc, size, iterations, workers int) int64 {
	template := randomInts(size)

	if workers <= 0 {
		workers = 1
	}

	var t bench.Timer
	t.Start()

	if workers == 1 {
		eraseLoop(fn, template, iterations)
	} else {
		var wg sync.WaitGroup
		wg.Add(workers)
		perWorker := iterations / workers
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				eraseLoop(fn, template, perWorker)
			}()
		}
		wg.Wait()
	}
	return t.ElapsedNanoseconds()
}

func eraseLoop(fn EraseFunc, template []int, iterations int) {
	buf := make([]int, len(template))
	for i := 0; i < iterations; i++ {
		copy(buf, template)
		_ = fn(buf[:len(template)])
	}
}

func randomInts(n int) []int {
	rng := pcg.New(uint64(n) ^ 0x853c49e6748fea9b)
	out := make([]int, n)
	for i := range out {
		out[i] = int(rng.Uint32())
	}
	return out
}
