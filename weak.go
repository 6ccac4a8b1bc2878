package sharedptr

// Weak is a non-owning observer of a payload owned by Ref handles. It can
// report liveness and attempt an atomic upgrade to a new strong owner. The
// zero value is an empty handle: Expired reports true and Lock fails.
type Weak[T any] struct {
	ctrl *control
}

// Clone returns a new observer of the same payload.
func (w *Weak[T]) Clone() *Weak[T] {
	if w.ctrl == nil {
		return &Weak[T]{}
	}
	w.ctrl.incWeak()
	return &Weak[T]{ctrl: w.ctrl}
}

// Move transfers the observation to a fresh handle without touching the
// counters. The receiver becomes empty.
func (w *Weak[T]) Move() *Weak[T] {
	m := &Weak[T]{ctrl: w.ctrl}
	w.ctrl = nil
	return m
}

// Assign releases the receiver's observation and makes it observe other's
// payload. Assigning a handle to itself is a no-op.
func (w *Weak[T]) Assign(other *Weak[T]) {
	if w == other {
		return
	}
	if w.ctrl != nil {
		w.ctrl.decWeak()
		w.ctrl = nil
	}
	if other != nil && other.ctrl != nil {
		other.ctrl.incWeak()
		w.ctrl = other.ctrl
	}
}

// Release drops the observation and empties the handle. The last holder of
// the counter block recycles it. Releasing an empty or moved-from handle is
// a no-op.
func (w *Weak[T]) Release() {
	ctrl := w.ctrl
	if ctrl == nil {
		return
	}
	w.ctrl = nil
	ctrl.decWeak()
}

// Expired reports whether the payload is already gone. Advisory only: a
// false result can be stale by the time the caller acts on it. Lock is the
// race-free way to act on liveness.
func (w *Weak[T]) Expired() bool {
	return w.ctrl == nil || w.ctrl.strong.Load() == 0
}

// UseCount reports the current number of strong owners. Advisory, like
// Expired.
func (w *Weak[T]) UseCount() int64 {
	if w.ctrl == nil {
		return 0
	}
	return w.ctrl.strong.Load()
}

// Lock attempts to upgrade the observer into a new strong owner. It returns
// nil if the payload is already gone. The increment happens inside the
// compare-and-swap of tryIncStrong, so a winning Lock can never resurrect a
// count that another goroutine drove to zero, and a losing Lock leaves no
// trace. The returned Ref already carries its unit; it must not be
// incremented again.
func (w *Weak[T]) Lock() *Ref[T] {
	if w.ctrl == nil || !w.ctrl.tryIncStrong() {
		return nil
	}
	// The unit we just took keeps the payload published until Release.
	return &Ref[T]{val: (*T)(w.ctrl.load()), ctrl: w.ctrl}
}
