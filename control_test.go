package sharedptr

import (
	"testing"
	"unsafe"

	"github.com/zeebo/assert"
)

func TestControlTryIncStrong(t *testing.T) {
	v := 1
	c := newControl(unsafe.Pointer(&v))
	assert.Equal(t, c.strong.Load(), 1)
	assert.Equal(t, c.weak.Load(), 1)

	assert.That(t, c.tryIncStrong())
	assert.Equal(t, c.strong.Load(), 2)

	c.decStrong()
	c.incWeak() // stand-in weak holder keeps the block out of the pool
	c.decStrong()

	// zero is terminal: no upgrade can succeed again
	assert.Equal(t, c.strong.Load(), 0)
	assert.That(t, !c.tryIncStrong())
	assert.That(t, !c.tryIncStrong())
	assert.That(t, c.load() == nil)

	c.decWeak()
}

func TestControlPayloadUnpublished(t *testing.T) {
	v := 5
	c := newControl(unsafe.Pointer(&v))
	assert.Equal(t, c.load(), unsafe.Pointer(&v))

	c.incWeak()
	c.decStrong()
	assert.That(t, c.load() == nil)
	c.decWeak()
}
