// package sharedptr provides reference-counted shared ownership of a heap
// value with a weak, non-owning observer that can be upgraded while the value
// is still alive.
//
// A Ref is a strong owner: any number of handles may co-own one payload, and
// the payload is dropped exactly once, when the last owner Releases. A Weak
// observes the payload without keeping it alive and can attempt an atomic
// upgrade:
//
//	owner := sharedptr.New(42)
//	weak := owner.Downgrade()
//
//	if locked := weak.Lock(); locked != nil {
//		use(locked.Value())
//		locked.Release()
//	}
//
//	owner.Release()
//	// weak.Expired() == true, weak.Lock() == nil
//	weak.Release()
//
// Lock uses an optimistic compare-and-swap loop: it reads the strong count,
// fails if it is zero, and otherwise swaps in count+1, retrying on
// contention. An unconditional increment-then-check would transiently revive
// a count another goroutine is driving to zero and let two goroutines
// disagree on who drops the payload; the CAS loop makes the upgrade succeed
// or fail atomically. Once the strong count reaches zero it stays there, so
// the loop always terminates.
//
// Both counters live in a small shared block drawn from a pool. The strong
// owners jointly hold one unit of the weak count, so a single counter
// reaching zero decides when the block is recycled and exactly one goroutine
// makes that decision, even when the last owner and the last observer let go
// simultaneously.
//
// All operations are lock-free and callable from any goroutine. A single
// handle is not safe for unsynchronized mutation from multiple goroutines;
// Clone is the synchronized way to hand a payload to another goroutine.
package sharedptr
