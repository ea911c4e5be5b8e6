package pipeline

import (
	"testing"
	"time"
)

func TestClockDelta(t *testing.T) {
	c := NewClock()
	if d := c.Delta(12.5); d != 0 {
		t.Fatalf("first delta = %v, want 0", d)
	}
	if d := c.Delta(13.0); d != 0.5 {
		t.Fatalf("delta = %v, want 0.5", d)
	}
	if d := c.Delta(13.0); d != 0 {
		t.Fatalf("equal stamps gave %v", d)
	}
	if c.Discontinuities() != 0 {
		t.Fatalf("unexpected discontinuity")
	}
}

func TestClockBackwards(t *testing.T) {
	c := NewClock()
	c.Delta(10)
	if d := c.Delta(9); d != 0 {
		t.Fatalf("backwards delta = %v, want 0", d)
	}
	if c.Discontinuities() != 1 {
		t.Fatalf("discontinuities = %d, want 1", c.Discontinuities())
	}
	// The reference follows the new anchor.
	if d := c.Delta(9.25); d != 0.25 {
		t.Fatalf("delta after discontinuity = %v, want 0.25", d)
	}
}

func TestClockReset(t *testing.T) {
	c := NewClock()
	c.Delta(1)
	c.Delta(0)
	c.Reset()
	if c.Discontinuities() != 0 {
		t.Fatal("reset kept the discontinuity count")
	}
	if d := c.Delta(100); d != 0 {
		t.Fatalf("first delta after reset = %v", d)
	}
}

func TestClockPeekDoesNotMoveReference(t *testing.T) {
	c := NewClock()
	c.Commit(1, false)
	if d, backwards := c.Peek(3); d != 2 || backwards {
		t.Fatalf("peek = %v, %v", d, backwards)
	}
	if d, backwards := c.Peek(0.5); d != 0 || !backwards {
		t.Fatalf("backwards peek = %v, %v", d, backwards)
	}
	if c.Discontinuities() != 0 {
		t.Fatal("peek counted a discontinuity")
	}
	if d := c.Delta(4); d != 3 {
		t.Fatalf("delta after peeks = %v, want 3", d)
	}
}

func TestSecondsConversions(t *testing.T) {
	if got := SecondsFromMillis(uint32(1500)); got != 1.5 {
		t.Errorf("millis: %v", got)
	}
	if got := SecondsFromMillis(int32(-250)); got != -0.25 {
		t.Errorf("negative millis: %v", got)
	}
}

func TestMonotonic(t *testing.T) {
	m := NewMonotonic()
	a := m.Now()
	time.Sleep(2 * time.Millisecond)
	b := m.Now()
	if a < 0 || b <= a {
		t.Fatalf("monotonic clock went from %v to %v", a, b)
	}
}
