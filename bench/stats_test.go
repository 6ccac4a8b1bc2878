package bench

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestMeanStddev(t *testing.T) {
	assert.Equal(t, Mean(nil), 0.0)
	assert.Equal(t, Stddev(nil), 0.0)
	assert.Equal(t, Stddev([]int64{5}), 0.0)

	samples := []int64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, Mean(samples), 5.0)

	// sample stddev of the set above is sqrt(32/7)
	sd := Stddev(samples)
	assert.That(t, sd > 2.13 && sd < 2.14)
	assert.That(t, Variance(samples) > 4.56 && Variance(samples) < 4.58)
}

func TestPercentile(t *testing.T) {
	sorted := []int64{10, 20, 30, 40, 50}
	assert.Equal(t, PercentileSorted(sorted, 0), 10.0)
	assert.Equal(t, PercentileSorted(sorted, 1), 50.0)
	assert.Equal(t, PercentileSorted(sorted, 0.5), 30.0)
	assert.Equal(t, PercentileSorted(sorted, 0.25), 20.0)
	// interpolation between neighbors
	assert.Equal(t, PercentileSorted(sorted, 0.125), 15.0)

	// Percentile sorts a copy and leaves the input alone
	unsorted := []int64{50, 10, 40, 20, 30}
	assert.Equal(t, Percentile(unsorted, 0.5), 30.0)
	assert.Equal(t, unsorted[0], 50)
	assert.Equal(t, Median(unsorted), 30.0)
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, Min(nil), 0)
	assert.Equal(t, Max(nil), 0)
	samples := []int64{3, 1, 2}
	assert.Equal(t, Min(samples), 1)
	assert.Equal(t, Max(samples), 3)
}

func TestRemoveOutliers(t *testing.T) {
	small := []int64{1, 2, 3}
	assert.DeepEqual(t, RemoveOutliers(small, 1.5), small)

	samples := []int64{10, 11, 12, 13, 14, 15, 16, 1000}
	trimmed := RemoveOutliers(samples, 1.5)
	assert.Equal(t, len(trimmed), 7)
	assert.Equal(t, Max(trimmed), 16)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summarize(nil).Count, 0)

	samples := make([]int64, 100)
	for i := range samples {
		samples[i] = int64(i + 1)
	}
	s := Summarize(samples)
	assert.Equal(t, s.Count, 100)
	assert.Equal(t, s.Mean, 50.5)
	assert.Equal(t, s.Min, 1.0)
	assert.Equal(t, s.Max, 100.0)
	assert.Equal(t, s.Median, 50.5)
	assert.That(t, s.P95 > 94 && s.P95 < 96)
	assert.That(t, s.P99 > 98 && s.P99 <= 100)
	assert.That(t, len(s.String()) > 0)
}
