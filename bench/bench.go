// package bench is a small harness for timing arbitrary functions: warmup,
// per-iteration samples, descriptive statistics and multi-worker runs with
// disjoint iteration ranges.
package bench

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	defaultIterations = 1000
	defaultWarmup     = 100

	nanosPerSecond = 1e9
)

// Config controls a benchmark run. The zero value is usable: non-positive
// Iterations and Workers fall back to 1000 and 1, a negative Warmup falls
// back to 100 while zero means no warmup.
type Config struct {
	Iterations     int
	Warmup         int
	Workers        int
	CollectSamples bool
	Verbose        bool
}

// DefaultConfig returns the default run configuration with sample
// collection enabled.
func DefaultConfig() Config {
	return Config{
		Iterations:     defaultIterations,
		Warmup:         defaultWarmup,
		Workers:        1,
		CollectSamples: true,
	}
}

func (c Config) normalized() Config {
	if c.Iterations <= 0 {
		c.Iterations = defaultIterations
	}
	if c.Warmup < 0 {
		c.Warmup = defaultWarmup
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// Stats holds the per-sample statistics of a run, in nanoseconds.
type Stats struct {
	MeanNs   float64
	StddevNs float64
	MinNs    float64
	MaxNs    float64
	P50Ns    float64
	P95Ns    float64
	P99Ns    float64
	Samples  []int64
}

// Result is the outcome of one benchmark run.
type Result struct {
	Name      string
	Config    Config
	Stats     Stats
	TotalNs   int64
	OpsPerSec float64
}

// Named pairs a benchmark name with the function under test.
type Named struct {
	Name string
	Fn   func()
}

// Run times fn for cfg.Iterations iterations after cfg.Warmup warmup calls.
// With more than one worker the iterations are split into disjoint ranges,
// one goroutine each, and all workers are joined before the result is
// computed.
func Run(name string, cfg Config, fn func()) Result {
	cfg = cfg.normalized()
	result := Result{Name: name, Config: cfg}

	if cfg.Verbose {
		slog.Info("benchmark warming up", "name", name, "iterations", cfg.Warmup)
	}
	Warmup(fn, cfg.Warmup)

	if cfg.Verbose {
		slog.Info("benchmark running", "name", name,
			"iterations", cfg.Iterations, "workers", cfg.Workers)
	}

	var samples []int64
	var total Timer
	total.Start()

	if cfg.Workers <= 1 {
		samples = runLoop(cfg.Iterations, cfg.CollectSamples, fn)
	} else {
		samples = runWorkers(cfg, fn)
	}
	result.TotalNs = total.ElapsedNanoseconds()

	if cfg.CollectSamples && len(samples) > 0 {
		result.Stats = computeStats(samples)
	} else {
		result.Stats.MeanNs = float64(result.TotalNs) / float64(cfg.Iterations)
	}
	result.OpsPerSec = OpsPerSec(cfg.Iterations, result.TotalNs)
	return result
}

// Compare runs every named benchmark under the same configuration.
func Compare(benchmarks []Named, cfg Config) []Result {
	results := make([]Result, 0, len(benchmarks))
	for _, b := range benchmarks {
		results = append(results, Run(b.Name, cfg, b.Fn))
	}
	return results
}

// OpsPerSec converts an operation count and elapsed nanoseconds into a rate.
// It returns 0 when the elapsed time is not positive.
func OpsPerSec(operations int, elapsedNs int64) float64 {
	if elapsedNs <= 0 {
		return 0
	}
	return float64(operations) / (float64(elapsedNs) / nanosPerSecond)
}

// WriteComparison writes a fixed-width table of results to w, marking the
// run with the lowest mean.
func WriteComparison(w io.Writer, results []Result) {
	if len(results) == 0 {
		return
	}
	fastest := results[0]
	for _, r := range results[1:] {
		if r.Stats.MeanNs < fastest.Stats.MeanNs {
			fastest = r
		}
	}

	rule := strings.Repeat("=", 78)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-30s%15s%15s%12s%6s\n", "Benchmark", "Mean (ns)", "Ops/sec", "vs fastest", "")
	fmt.Fprintln(w, rule)
	for _, r := range results {
		ratio := 0.0
		if fastest.Stats.MeanNs > 0 {
			ratio = r.Stats.MeanNs / fastest.Stats.MeanNs
		}
		mark := ""
		if r.Name == fastest.Name {
			mark = " *"
		}
		fmt.Fprintf(w, "%-30s%15.2f%15.2e%11.2fx%6s\n",
			r.Name, r.Stats.MeanNs, r.OpsPerSec, ratio, mark)
	}
	fmt.Fprintln(w, rule)
}

func runLoop(iterations int, collect bool, fn func()) []int64 {
	if !collect {
		for i := 0; i < iterations; i++ {
			fn()
		}
		return nil
	}
	samples := make([]int64, 0, iterations)
	var t Timer
	for i := 0; i < iterations; i++ {
		t.Start()
		fn()
		samples = append(samples, t.ElapsedNanoseconds())
	}
	return samples
}

func runWorkers(cfg Config, fn func()) []int64 {
	perWorker := cfg.Iterations / cfg.Workers
	extra := cfg.Iterations % cfg.Workers

	workerSamples := make([][]int64, cfg.Workers)
	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		n := perWorker
		if w < extra {
			n++
		}
		go func(w, n int) {
			defer wg.Done()
			workerSamples[w] = runLoop(n, cfg.CollectSamples, fn)
		}(w, n)
	}
	wg.Wait()

	if !cfg.CollectSamples {
		return nil
	}
	samples := make([]int64, 0, cfg.Iterations)
	for _, ws := range workerSamples {
		samples = append(samples, ws...)
	}
	return samples
}

func computeStats(samples []int64) Stats {
	sum := Summarize(samples)
	return Stats{
		MeanNs:   sum.Mean,
		StddevNs: sum.Stddev,
		MinNs:    sum.Min,
		MaxNs:    sum.Max,
		P50Ns:    sum.Median,
		P95Ns:    sum.P95,
		P99Ns:    sum.P99,
		Samples:  samples,
	}
}
