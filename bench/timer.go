package bench

import "time"

// Timer measures elapsed wall time on the monotonic clock.
type Timer struct {
	start time.Time
}

// Start records the current time as the measurement origin.
func (t *Timer) Start() { t.start = time.Now() }

// Reset is an alias for Start.
func (t *Timer) Reset() { t.Start() }

// Elapsed returns the time since Start.
func (t *Timer) Elapsed() time.Duration { return time.Since(t.start) }

// ElapsedNanoseconds returns the time since Start in nanoseconds.
func (t *Timer) ElapsedNanoseconds() int64 { return time.Since(t.start).Nanoseconds() }

// Warmup runs fn the given number of times before measurement so that
// allocator and cache effects settle.
func Warmup(fn func(), iterations int) {
	for i := 0; i < iterations; i++ {
		fn()
	}
}
