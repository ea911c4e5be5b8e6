package pipeline

import (
	"sync/atomic"
	"time"
)

// Clock turns absolute backend timestamps, already converted to seconds, into the
// delta times attached to delivered messages. It is owned by the producer; only the
// discontinuity counter is read from other goroutines.
type Clock struct {
	first           bool
	last            float64
	discontinuities atomic.Uint64
}

// NewClock returns a clock waiting for its first message.
func NewClock() *Clock {
	return &Clock{first: true}
}

// Reset makes the next delivered message the first one again.
func (c *Clock) Reset() {
	c.first = true
	c.last = 0
	c.discontinuities.Store(0)
}

// Delta returns the seconds between the previous delivered anchor and this one
// and makes anchor the new reference. The first call after Reset returns 0. A clock
// that went backwards yields 0 and is counted as a discontinuity; the reference
// still moves to the new anchor.
func (c *Clock) Delta(anchor float64) float64 {
	d, backwards := c.Peek(anchor)
	c.Commit(anchor, backwards)
	return d
}

// Peek returns the delta anchor would get without moving the reference. backwards
// reports a clock that went backwards, in which case the delta is 0.
func (c *Clock) Peek(anchor float64) (delta float64, backwards bool) {
	if c.first {
		return 0, false
	}
	d := anchor - c.last
	if d < 0 {
		return 0, true
	}
	return d, false
}

// Commit makes anchor the reference once its message was delivered.
func (c *Clock) Commit(anchor float64, backwards bool) {
	c.first = false
	c.last = anchor
	if backwards {
		c.discontinuities.Add(1)
	}
}

// Discontinuities returns how many times the backend clock went backwards.
func (c *Clock) Discontinuities() uint64 {
	return c.discontinuities.Load()
}

// SecondsFromMillis converts a millisecond timestamp.
func SecondsFromMillis[T ~int32 | ~uint32 | ~int64 | ~uint64](ms T) float64 {
	return float64(ms) / 1e3
}

// Monotonic is a seconds clock for backends whose OS gives no usable timestamp.
type Monotonic struct {
	start time.Time
}

// NewMonotonic starts a clock at zero.
func NewMonotonic() Monotonic {
	return Monotonic{start: time.Now()}
}

// Now returns the seconds elapsed since the clock started.
func (m Monotonic) Now() float64 {
	return time.Since(m.start).Seconds()
}
