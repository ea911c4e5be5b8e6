// Package pipeline turns raw MIDI input from a backend into delivered messages.
//
// A backend pushes every OS delivery unit into a Sink. The Pipeline assembles
// complete messages, applies the ignore flags, stamps delta times and dispatches
// each message to the registered callback or to the bounded queue. Feed runs on
// the backend's producer goroutine; Message, SetCallback and IgnoreTypes run on
// the application side.
package pipeline

import (
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Sink is what a backend feeds. Feed must not be called concurrently for the same
// sink and must not block on the application.
type Sink interface {
	// Feed consumes one delivery unit stamped with backend time in seconds.
	Feed(data []byte, seconds float64)
	// Report surfaces a backend fault observed on the producer side. It never panics.
	Report(kind contracts.ErrorKind, msg string) error
}

// Pipeline is the input side of one connection.
type Pipeline struct {
	filter     Filter
	clock      *Clock
	assembler  *Assembler
	dispatcher *Dispatcher
	reporter   *Reporter
}

// New builds a pipeline with a queue of queueSize messages.
func New(queueSize int, reporter *Reporter) *Pipeline {
	p := &Pipeline{
		clock:    NewClock(),
		reporter: reporter,
	}
	p.assembler = NewAssembler(&p.filter, p.emit)
	p.dispatcher = NewDispatcher(NewRing(queueSize), reporter)
	return p
}

// Feed implements Sink.
func (p *Pipeline) Feed(data []byte, seconds float64) {
	p.assembler.Feed(data, seconds)
}

// Report implements Sink.
func (p *Pipeline) Report(kind contracts.ErrorKind, msg string) error {
	return p.reporter.Report(kind, msg)
}

// emit stamps msg and dispatches it. The clock reference only moves when the
// message reached a sink.
func (p *Pipeline) emit(msg []byte, anchor float64) {
	delta, backwards := p.clock.Peek(anchor)
	if p.dispatcher.Dispatch(contracts.Message{Bytes: msg, Timestamp: delta}) {
		p.clock.Commit(anchor, backwards)
	}
}

// Filter returns the ignore flags.
func (p *Pipeline) Filter() *Filter {
	return &p.filter
}

// Dispatcher returns the delivery stage.
func (p *Pipeline) Dispatcher() *Dispatcher {
	return p.dispatcher
}

// Message pops the next queued message.
func (p *Pipeline) Message() contracts.Message {
	return p.dispatcher.Message()
}

// ResetAssembly discards partial input and restarts the clock. The producer must be stopped.
func (p *Pipeline) ResetAssembly() {
	p.assembler.Reset()
	p.clock.Reset()
}

// Reset fully reinitializes the pipeline for a new connection. Flags and callback are kept.
func (p *Pipeline) Reset() {
	p.ResetAssembly()
	p.dispatcher.Reset()
}

// Stats returns the delivery counters.
func (p *Pipeline) Stats() contracts.InputStats {
	return contracts.InputStats{
		Delivered:       p.dispatcher.Delivered(),
		Dropped:         p.dispatcher.Dropped(),
		Filtered:        p.assembler.Filtered(),
		Malformed:       p.assembler.Malformed(),
		Discontinuities: p.clock.Discontinuities(),
		Queued:          p.dispatcher.Queued(),
	}
}
