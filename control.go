package sharedptr

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// control is the block shared by every Ref and Weak handle aliasing one
// payload. strong counts the live Ref handles. weak counts the live Weak
// handles plus one unit held jointly by the strong side, so the recycle
// decision is a single atomic question: whoever drops weak to zero owns the
// block exclusively and returns it to the pool.
type control struct {
	strong atomic.Int64
	weak   atomic.Int64
	// val is the payload pointer, cleared when the last strong handle drops.
	// It is read only under a strong unit obtained via incStrong or a winning
	// tryIncStrong, so the clearing store can never overlap a read.
	val unsafe.Pointer
}

// controlPool recycles blocks across payload lifetimes. A block enters the
// pool with both counts at zero and a nil payload pointer.
var controlPool = sync.Pool{New: func() interface{} { return new(control) }}

// newControl returns a block primed with one strong holder.
func newControl(val unsafe.Pointer) *control {
	c, _ := controlPool.Get().(*control)
	c.strong.Store(1)
	c.weak.Store(1)
	atomic.StorePointer(&c.val, val)
	return c
}

// incStrong records one more strong holder. The caller must already hold a
// strong unit, which keeps the count positive, so a plain add is enough.
func (c *control) incStrong() { c.strong.Add(1) }

// tryIncStrong attempts to add a strong holder without holding one. It reads
// the count and swaps it one higher, retrying on contention and giving up
// once zero is observed. Zero is terminal for the strong count (this is the
// only increment path and it refuses zero), so the loop cannot revive a dying
// payload and cannot spin forever: every failed swap means the count either
// moved toward zero or another upgrade won.
func (c *control) tryIncStrong() bool {
	for n := c.strong.Load(); n > 0; n = c.strong.Load() {
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
	return false
}

// decStrong drops one strong holder. The final holder unpublishes the payload
// and releases the strong side's shared weak unit.
func (c *control) decStrong() {
	if c.strong.Add(-1) == 0 {
		atomic.StorePointer(&c.val, nil)
		c.decWeak()
	}
}

// incWeak records one more weak holder. Callers hold either a strong or a
// weak unit, so the count is positive.
func (c *control) incWeak() { c.weak.Add(1) }

// decWeak drops one weak holder and recycles the block on the last one.
// The payload pointer is already nil by then: weak cannot reach zero before
// the strong side released its unit in decStrong.
func (c *control) decWeak() {
	if c.weak.Add(-1) == 0 {
		controlPool.Put(c)
	}
}

// load returns the current payload pointer, nil once the payload is gone.
func (c *control) load() unsafe.Pointer { return atomic.LoadPointer(&c.val) }
