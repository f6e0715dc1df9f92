// Package refcount implements the bookkeeping for breaking
// UserFn<->Environment reference cycles: a strong count plus a cycle
// count, where the owner is externally unreachable once the strong count
// drops to the cycle count. Go's tracing garbage collector already
// reclaims reference cycles on its own, so this package does not manage
// actual memory; it exists so that cycle-breaking is an observable,
// testable property of the environment model rather than an invisible GC
// implementation detail.
package refcount

// Counter tracks a strong reference count and a cycle count for one owner.
// When Strong() drops to or below Cycles(), the owner is considered
// externally unreachable (Dead reports true) even though a live Go pointer
// to it may still exist inside the cycle itself.
type Counter struct {
	strong int
	cycles int
	dead   bool
}

// NewCounter returns a Counter with one strong reference (the creator's).
func NewCounter() *Counter {
	return &Counter{strong: 1}
}

// Retain registers one additional strong reference.
func (c *Counter) Retain() {
	if c.dead {
		return
	}
	c.strong++
}

// Release drops one strong reference, reporting whether the owner just
// became externally unreachable (strong <= cycles).
func (c *Counter) Release() (becameDead bool) {
	if c.dead {
		return false
	}
	c.strong--
	if c.strong <= c.cycles {
		c.dead = true
		return true
	}
	return false
}

// AddCycle registers one additional self-referential (cyclic) strong
// reference: a reference that will never be released from outside the
// cycle, so it must not by itself keep the owner alive.
func (c *Counter) AddCycle() {
	c.cycles++
}

// RemoveCycle undoes a prior AddCycle, used when a cyclic binding is
// overwritten or removed.
func (c *Counter) RemoveCycle() {
	if c.cycles > 0 {
		c.cycles--
	}
}

// Strong reports the current strong count.
func (c *Counter) Strong() int { return c.strong }

// Cycles reports the current cycle count.
func (c *Counter) Cycles() int { return c.cycles }

// Dead reports whether the owner has become externally unreachable.
func (c *Counter) Dead() bool { return c.dead }
