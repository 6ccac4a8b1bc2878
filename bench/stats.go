package bench

import (
	"fmt"
	"math"
	"slices"
)

// Mean returns the arithmetic mean of the samples, 0 for an empty set.
func Mean(samples []int64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples))
}

// Stddev returns the sample standard deviation, 0 for fewer than two samples.
func Stddev(samples []int64) float64 {
	if len(samples) < 2 {
		return 0
	}
	m := Mean(samples)
	var sq float64
	for _, s := range samples {
		d := float64(s) - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(samples)-1))
}

// Variance returns the sample variance.
func Variance(samples []int64) float64 {
	sd := Stddev(samples)
	return sd * sd
}

// PercentileSorted returns the p-th percentile (0..1) of already sorted
// samples, interpolating linearly between neighbors.
func PercentileSorted(sorted []int64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return float64(sorted[0])
	}
	if p >= 1 {
		return float64(sorted[len(sorted)-1])
	}
	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return float64(sorted[lower])
	}
	frac := idx - float64(lower)
	return float64(sorted[lower])*(1-frac) + float64(sorted[upper])*frac
}

// Percentile sorts a copy of the samples and returns the p-th percentile.
func Percentile(samples []int64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return PercentileSorted(sorted, p)
}

// Median returns the 50th percentile.
func Median(samples []int64) float64 { return Percentile(samples, 0.5) }

// Min returns the smallest sample, 0 for an empty set.
func Min(samples []int64) int64 {
	if len(samples) == 0 {
		return 0
	}
	return slices.Min(samples)
}

// Max returns the largest sample, 0 for an empty set.
func Max(samples []int64) int64 {
	if len(samples) == 0 {
		return 0
	}
	return slices.Max(samples)
}

// RemoveOutliers returns the samples whose values fall within mult
// interquartile ranges of the quartiles. Sets of fewer than four samples are
// returned unchanged.
func RemoveOutliers(samples []int64, mult float64) []int64 {
	if len(samples) < 4 {
		return samples
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	q1 := PercentileSorted(sorted, 0.25)
	q3 := PercentileSorted(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - mult*iqr
	hi := q3 + mult*iqr

	out := make([]int64, 0, len(samples))
	for _, s := range samples {
		if v := float64(s); v >= lo && v <= hi {
			out = append(out, s)
		}
	}
	return out
}

// Summary holds the full set of descriptive statistics for one sample set.
type Summary struct {
	Count    int
	Mean     float64
	Stddev   float64
	Variance float64
	Min      float64
	Max      float64
	P5       float64
	P25      float64
	Median   float64
	P75      float64
	P95      float64
	P99      float64
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"count=%d mean=%.2f (±%.2f) min=%.2f max=%.2f p5=%.2f p25=%.2f p50=%.2f p75=%.2f p95=%.2f p99=%.2f",
		s.Count, s.Mean, s.Stddev, s.Min, s.Max, s.P5, s.P25, s.Median, s.P75, s.P95, s.P99)
}

// Summarize computes a Summary over the samples.
func Summarize(samples []int64) Summary {
	var out Summary
	if len(samples) == 0 {
		return out
	}
	out.Count = len(samples)
	out.Mean = Mean(samples)
	out.Stddev = Stddev(samples)
	out.Variance = out.Stddev * out.Stddev

	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	out.Min = float64(sorted[0])
	out.Max = float64(sorted[len(sorted)-1])
	out.P5 = PercentileSorted(sorted, 0.05)
	out.P25 = PercentileSorted(sorted, 0.25)
	out.Median = PercentileSorted(sorted, 0.50)
	out.P75 = PercentileSorted(sorted, 0.75)
	out.P95 = PercentileSorted(sorted, 0.95)
	out.P99 = PercentileSorted(sorted, 0.99)
	return out
}
