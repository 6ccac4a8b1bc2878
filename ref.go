package sharedptr

import "unsafe"

// Ref is a strong, shared owner of a heap value. Any number of handles may
// co-own the same payload; the payload is dropped exactly once, when the last
// owner Releases. All operations are safe to call from any goroutine, with
// the usual caveat that a single handle is not shared between goroutines
// without a Clone.
type Ref[T any] struct {
	val  *T
	ctrl *control
}

// New copies v to the heap and returns its first strong owner.
func New[T any](v T) *Ref[T] {
	return Adopt(&v)
}

// Adopt takes ownership of an existing allocation. The pointer must not
// already be owned by another Ref chain. Adopt(nil) returns an empty handle.
func Adopt[T any](p *T) *Ref[T] {
	if p == nil {
		return &Ref[T]{}
	}
	return &Ref[T]{val: p, ctrl: newControl(unsafe.Pointer(p))}
}

// Clone returns a new handle co-owning the same payload. The receiver's own
// unit keeps the count positive, so this is a plain increment.
func (r *Ref[T]) Clone() *Ref[T] {
	if r.ctrl == nil {
		return &Ref[T]{}
	}
	r.ctrl.incStrong()
	return &Ref[T]{val: r.val, ctrl: r.ctrl}
}

// Move transfers ownership to a fresh handle without touching the counters.
// The receiver becomes empty; Releasing it afterwards is a no-op.
func (r *Ref[T]) Move() *Ref[T] {
	m := &Ref[T]{val: r.val, ctrl: r.ctrl}
	r.val, r.ctrl = nil, nil
	return m
}

// Assign releases whatever the receiver owned and makes it co-own other's
// payload. Assigning a handle to itself is a no-op. Assigning an empty or
// nil other leaves the receiver empty.
func (r *Ref[T]) Assign(other *Ref[T]) {
	if r == other {
		return
	}
	if r.ctrl != nil {
		// Distinct handles to the same payload each hold a unit, so this
		// cannot take the count to zero when other aliases the receiver.
		r.ctrl.decStrong()
		r.val, r.ctrl = nil, nil
	}
	if other != nil && other.ctrl != nil {
		other.ctrl.incStrong()
		r.val, r.ctrl = other.val, other.ctrl
	}
}

// Release drops the receiver's ownership unit and empties the handle. The
// last owner drops the payload itself. Releasing an empty or moved-from
// handle is a no-op, so Release is safe to call exactly once per Clone plus
// once for the original.
func (r *Ref[T]) Release() {
	ctrl := r.ctrl
	if ctrl == nil {
		return
	}
	r.val, r.ctrl = nil, nil
	ctrl.decStrong()
}

// Get returns a pointer to the owned value, or nil for an empty handle.
func (r *Ref[T]) Get() *T { return r.val }

// Value dereferences the handle. It panics on an empty or moved-from handle.
func (r *Ref[T]) Value() T {
	if r.val == nil {
		panic("sharedptr: Value of empty Ref")
	}
	return *r.val
}

// UseCount reports how many strong handles currently alias the payload. The
// value is advisory: under concurrent use it may be stale the moment it
// returns.
func (r *Ref[T]) UseCount() int64 {
	if r.ctrl == nil {
		return 0
	}
	return r.ctrl.strong.Load()
}

// Valid reports whether the handle owns a payload.
func (r *Ref[T]) Valid() bool { return r.val != nil }

// Downgrade returns a weak observer of the payload. The observer does not
// keep the payload alive, only the counter block.
func (r *Ref[T]) Downgrade() *Weak[T] {
	if r.ctrl == nil {
		return &Weak[T]{}
	}
	r.ctrl.incWeak()
	return &Weak[T]{ctrl: r.ctrl}
}
