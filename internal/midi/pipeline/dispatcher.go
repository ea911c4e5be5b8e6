package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Handler receives a completed message on the producer goroutine.
type Handler func(message []byte, deltaTime float64)

// Mode is the delivery mode of a dispatcher.
type Mode int

const (
	// ModeNone discards messages: no callback and the queue is disabled.
	ModeNone Mode = iota
	// ModeQueued stores messages for Message to pop.
	ModeQueued
	// ModeCallback hands messages to the registered handler.
	ModeCallback
)

func (m Mode) String() string {
	switch m {
	case ModeQueued:
		return "queued"
	case ModeCallback:
		return "callback"
	}
	return "none"
}

// Dispatcher hands every completed message to exactly one sink: the registered
// handler if there is one, the ring otherwise.
type Dispatcher struct {
	ring     *Ring
	reporter *Reporter

	mu      sync.Mutex // serializes SetCallback and CancelCallback
	handler atomic.Pointer[Handler]

	// dropStreak is producer-owned: it rate-limits the queue-full warning of this
	// connection to one per burst of drops.
	dropStreak uint64

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewDispatcher returns a dispatcher in queued mode, or none when ring is disabled.
func NewDispatcher(ring *Ring, reporter *Reporter) *Dispatcher {
	return &Dispatcher{ring: ring, reporter: reporter}
}

// Mode returns the current delivery mode.
func (d *Dispatcher) Mode() Mode {
	if d.handler.Load() != nil {
		return ModeCallback
	}
	if d.ring.Capacity() == 0 {
		return ModeNone
	}
	return ModeQueued
}

// SetCallback switches to callback mode. Queued messages stay in the ring.
func (d *Dispatcher) SetCallback(h Handler) error {
	if h == nil {
		return d.reporter.Report(contracts.InvalidParameter, "callback function is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handler.Load() != nil {
		return d.reporter.Report(contracts.InvalidUse, "a callback function is already set")
	}
	d.handler.Store(&h)
	return nil
}

// CancelCallback returns to queued mode. A handler already running on the producer
// may still finish its current call after CancelCallback returns.
func (d *Dispatcher) CancelCallback() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handler.Load() == nil {
		return d.reporter.Report(contracts.InvalidUse, "no callback function was set")
	}
	d.handler.Store(nil)
	return nil
}

// Dispatch delivers msg and reports whether it reached a sink. Producer only.
func (d *Dispatcher) Dispatch(msg contracts.Message) bool {
	if h := d.handler.Load(); h != nil {
		(*h)(msg.Bytes, msg.Timestamp)
		d.delivered.Add(1)
		return true
	}

	if d.ring.Push(msg) {
		d.delivered.Add(1)
		if d.dropStreak > 0 {
			d.reporter.Warn("message queue accepting again after overflow",
				d.reporter.Logger().Field().Uint64("dropped", d.dropStreak))
			d.dropStreak = 0
		}
		return true
	}

	d.dropped.Add(1)
	d.dropStreak++
	if d.dropStreak > 1 {
		return false
	}
	if d.ring.Capacity() == 0 {
		d.reporter.Warn("message queue is disabled and no callback is set; dropping MIDI message")
		return false
	}
	d.reporter.Warn("message queue limit reached; dropping MIDI message",
		d.reporter.Logger().Field().Int("capacity", d.ring.Capacity()))
	return false
}

// Message pops the next queued message. With a callback registered it reports a
// warning and returns the empty message. Consumer only.
func (d *Dispatcher) Message() contracts.Message {
	if d.handler.Load() != nil {
		_ = d.reporter.Report(contracts.Warning, "returning an empty message because a callback function is set")
		return contracts.Message{}
	}
	m, _ := d.ring.Pop()
	return m
}

// Reset clears the queue, counters and drop streak. Neither side may be active.
func (d *Dispatcher) Reset() {
	d.ring.Reset()
	d.dropStreak = 0
	d.delivered.Store(0)
	d.dropped.Store(0)
}

// Delivered returns how many messages reached a sink.
func (d *Dispatcher) Delivered() uint64 {
	return d.delivered.Load()
}

// Dropped returns how many messages were lost.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Queued returns the number of messages waiting in the ring.
func (d *Dispatcher) Queued() int {
	return d.ring.Len()
}
