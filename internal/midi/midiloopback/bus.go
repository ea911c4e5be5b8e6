// Package midiloopback is an in-process MIDI backend. Virtual ports opened on one
// side of the Bus show up as ports on the other side: a virtual output is a source
// inputs can open, a virtual input is a destination outputs can open.
package midiloopback

import (
	"errors"
	"sync"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
)

// Available reports whether the backend is compiled in.
const Available = true

// readerBuffer is the number of sends a reader can lag behind before senders block.
const readerBuffer = 256

var errPortGone = errors.New("loopback port was closed")

// DefaultBus is shared by all loopback connections created through the SDK.
var DefaultBus = NewBus()

// Bus connects loopback sources and destinations.
type Bus struct {
	clock pipeline.Monotonic

	mu           sync.RWMutex
	sources      []*source
	destinations []*reader
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{clock: pipeline.NewMonotonic()}
}

// source is a virtual output port. Every input that opened it receives its sends.
type source struct {
	name string

	mu      sync.RWMutex
	readers map[*reader]struct{}
}

func (s *source) subscribe(r *reader) {
	s.mu.Lock()
	s.readers[r] = struct{}{}
	s.mu.Unlock()
}

func (s *source) unsubscribe(r *reader) {
	s.mu.Lock()
	delete(s.readers, r)
	s.mu.Unlock()
}

func (s *source) deliver(p packet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for r := range s.readers {
		_ = r.deliver(p)
	}
}

func (b *Bus) addSource(name string) *source {
	s := &source{name: name, readers: map[*reader]struct{}{}}
	b.mu.Lock()
	b.sources = append(b.sources, s)
	b.mu.Unlock()
	return s
}

func (b *Bus) removeSource(s *source) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = remove(b.sources, s)
}

func (b *Bus) addDestination(r *reader) {
	b.mu.Lock()
	b.destinations = append(b.destinations, r)
	b.mu.Unlock()
}

func (b *Bus) removeDestination(r *reader) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destinations = remove(b.destinations, r)
}

func (b *Bus) sourceAt(port int) (*source, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := connection.CheckPort(port, len(b.sources)); err != nil {
		return nil, err
	}
	return b.sources[port], nil
}

func (b *Bus) destinationAt(port int) (*reader, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := connection.CheckPort(port, len(b.destinations)); err != nil {
		return nil, err
	}
	return b.destinations[port], nil
}

func (b *Bus) sourceNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, len(b.sources))
	for i, s := range b.sources {
		names[i] = s.name
	}
	return names
}

func (b *Bus) destinationNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, len(b.destinations))
	for i, r := range b.destinations {
		names[i] = r.name
	}
	return names
}

// stamp copies message and stamps it with the bus clock.
func (b *Bus) stamp(message []byte) packet {
	return packet{data: append([]byte(nil), message...), seconds: b.clock.Now()}
}

func remove[T comparable](list []T, v T) []T {
	for i, x := range list {
		if x == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
