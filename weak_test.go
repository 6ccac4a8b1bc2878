package sharedptr

import (
	"runtime"
	"sync"
	"testing"

	"github.com/zeebo/assert"
)

func TestWeakLock(t *testing.T) {
	owner := New(42)
	weak := owner.Downgrade()
	assert.That(t, !weak.Expired())
	assert.Equal(t, weak.UseCount(), 1)

	locked := weak.Lock()
	assert.NotNil(t, locked)
	assert.Equal(t, locked.Value(), 42)
	assert.Equal(t, owner.UseCount(), 2)

	locked.Release()
	assert.Equal(t, owner.UseCount(), 1)

	owner.Release()
	assert.That(t, weak.Expired())
	assert.Nil(t, weak.Lock())
	weak.Release()
}

func TestWeakZeroValue(t *testing.T) {
	var w Weak[int]
	assert.That(t, w.Expired())
	assert.Equal(t, w.UseCount(), 0)
	assert.Nil(t, w.Lock())
	w.Release()
	w.Release()
}

func TestWeakCloneMoveAssign(t *testing.T) {
	owner := New("x")
	w1 := owner.Downgrade()
	w2 := w1.Clone()
	w3 := w2.Move()

	assert.That(t, w2.Expired()) // moved-from is empty
	assert.That(t, !w3.Expired())

	var w4 Weak[string]
	w4.Assign(w3)
	assert.That(t, !w4.Expired())
	w4.Assign(&w4)
	assert.That(t, !w4.Expired())

	owner.Release()
	for _, w := range []*Weak[string]{w1, w2, w3, &w4} {
		assert.That(t, w.Expired())
		assert.Nil(t, w.Lock())
		w.Release()
	}
}

func TestWeakOutlivesPayload(t *testing.T) {
	// lock() never consults the weak count: any number of observers may
	// outlive the payload without blocking teardown or reviving it.
	owner := New(1)
	weaks := make([]*Weak[int], 16)
	for i := range weaks {
		weaks[i] = owner.Downgrade()
	}
	owner.Release()
	for _, w := range weaks {
		assert.That(t, w.Expired())
		assert.Nil(t, w.Lock())
	}
	for _, w := range weaks {
		w.Release()
	}
}

func TestWeakLockLoopRace(t *testing.T) {
	// T goroutines each upgrade in a tight loop while the original owner is
	// never dropped. Every temporary owner must be released correctly: after
	// the join the count is exactly 1 again.
	const iterations = 10000
	owner := New(42)
	weak := owner.Downgrade()
	np := runtime.GOMAXPROCS(-1)

	var wg sync.WaitGroup
	wg.Add(np)
	for i := 0; i < np; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				locked := weak.Lock()
				if locked == nil {
					t.Error("lock failed with a live owner")
					return
				}
				if locked.Value() != 42 {
					t.Error("locked wrong value")
					return
				}
				locked.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, owner.UseCount(), 1)
	weak.Release()
	owner.Release()
}

func TestWeakDropVersusLockRace(t *testing.T) {
	// One goroutine drops the last owner while another upgrades. Either the
	// upgrade wins and sees an intact payload, or it loses cleanly. Running
	// many rounds through the pool also shakes out teardown double-frees,
	// which would corrupt a later round's block.
	const rounds = 10000
	for i := 0; i < rounds; i++ {
		owner := New(i)
		weak := owner.Downgrade()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			owner.Release()
		}()
		go func() {
			defer wg.Done()
			if locked := weak.Lock(); locked != nil {
				if locked.Value() != i {
					t.Error("locked a torn payload")
				}
				locked.Release()
			}
		}()
		wg.Wait()

		assert.That(t, weak.Expired())
		weak.Release()
	}
}

func TestWeakConcurrentObservers(t *testing.T) {
	// Observers created and dropped from many goroutines while owners come
	// and go. Exercises the shared weak unit: the block must be recycled
	// exactly once no matter which side lets go last.
	const perWorker = 5000
	owner := New(7)
	np := runtime.GOMAXPROCS(-1)

	var wg sync.WaitGroup
	wg.Add(np)
	for i := 0; i < np; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w := owner.Downgrade()
				if locked := w.Lock(); locked != nil {
					locked.Release()
				}
				w.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, owner.UseCount(), 1)
	owner.Release()
}

func BenchmarkWeakLock(b *testing.B) {
	b.Run("Hit", func(b *testing.B) {
		owner := New(0)
		weak := owner.Downgrade()
		defer owner.Release()
		defer weak.Release()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			weak.Lock().Release()
		}
	})

	b.Run("Miss", func(b *testing.B) {
		owner := New(0)
		weak := owner.Downgrade()
		owner.Release()
		defer weak.Release()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if weak.Lock() != nil {
				b.Fatal("lock succeeded after the owner dropped")
			}
		}
	})

	b.Run("Parallel/Hit", func(b *testing.B) {
		owner := New(0)
		weak := owner.Downgrade()
		defer owner.Release()
		defer weak.Release()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				weak.Lock().Release()
			}
		})
	})

	b.Run("Lifecycle", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			owner := New(i)
			weak := owner.Downgrade()
			weak.Lock().Release()
			weak.Release()
			owner.Release()
		}
	})
}
