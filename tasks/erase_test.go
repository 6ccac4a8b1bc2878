package tasks

import (
	"testing"

	"github.com/zeebo/assert"
)

func evens(n int) []int {
	out := make([]int, 0, (n+1)/2)
	for i := 0; i < n; i += 2 {
		out = append(out, i)
	}
	return out
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestEraseMethodsAgree(t *testing.T) {
	for _, m := range EraseMethods {
		for _, n := range []int{0, 1, 2, 3, 10, 11, 100} {
			got := m.Fn(sequence(n))
			assert.DeepEqual(t, got, evens(n))
		}
	}
}

func TestEraseBench(t *testing.T) {
	for _, m := range EraseMethods {
		assert.That(t, EraseBench(m.Fn, 100, 10, 1) > 0)
	}
	assert.That(t, EraseBench(EraseInPlace, 100, 10, 4) > 0)
}

func BenchmarkErase(b *testing.B) {
	for _, m := range EraseMethods {
		b.Run(m.Name, func(b *testing.B) {
			input := sequence(1000)
			buf := make([]int, len(input))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				copy(buf, input)
				_ = m.Fn(buf[:len(input)])
			}
		})
	}
}
