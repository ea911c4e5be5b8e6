package pipeline

import (
	"sync/atomic"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Ring is a fixed-capacity single-producer/single-consumer queue of messages.
//
// front and back are free-running counters; the slot index is the counter modulo the
// capacity and count is back-front. The producer only stores back, the consumer only
// stores front, and each publishes its slot write or read through that store, so a
// concurrent Push and Pop never see a torn queue.
type Ring struct {
	slots    []contracts.Message
	capacity uint64
	front    atomic.Uint64
	back     atomic.Uint64
}

// NewRing allocates a ring of the given capacity. A capacity <= 0 disables the ring:
// every Push fails.
func NewRing(capacity int) *Ring {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring{
		slots:    make([]contracts.Message, capacity),
		capacity: uint64(capacity),
	}
}

// Capacity returns the fixed capacity.
func (r *Ring) Capacity() int {
	return int(r.capacity)
}

// Len returns the number of queued messages. Called from a third goroutine it is a
// snapshot that stays within [0, Capacity].
func (r *Ring) Len() int {
	front := r.front.Load()
	n := r.back.Load() - front
	if n > r.capacity {
		n = r.capacity
	}
	return int(n)
}

// Push appends m. It returns false, leaving the ring untouched, when the ring is full
// or disabled. Producer only.
func (r *Ring) Push(m contracts.Message) bool {
	if r.capacity == 0 {
		return false
	}
	back := r.back.Load()
	if back-r.front.Load() == r.capacity {
		return false
	}
	r.slots[back%r.capacity] = m
	r.back.Store(back + 1)
	return true
}

// Pop removes the oldest message. ok is false when the ring is empty. Consumer only.
func (r *Ring) Pop() (m contracts.Message, ok bool) {
	front := r.front.Load()
	if front == r.back.Load() {
		return contracts.Message{}, false
	}
	i := front % r.capacity
	m = r.slots[i]
	r.slots[i] = contracts.Message{}
	r.front.Store(front + 1)
	return m, true
}

// Reset empties the ring. Neither the producer nor the consumer may be active.
func (r *Ring) Reset() {
	for i := range r.slots {
		r.slots[i] = contracts.Message{}
	}
	r.front.Store(0)
	r.back.Store(0)
}
