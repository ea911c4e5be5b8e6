package midiloopback

import (
	"sync"

	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
)

type packet struct {
	data    []byte
	seconds float64
}

// reader is the producer goroutine of one loopback input. It is the only caller
// of sink.Feed for its session.
type reader struct {
	name string
	sink pipeline.Sink

	packets chan packet
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func newReader(name string, sink pipeline.Sink) *reader {
	r := &reader{
		name:    name,
		sink:    sink,
		packets: make(chan packet, readerBuffer),
		stop:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *reader) run() {
	defer r.wg.Done()
	for {
		select {
		case <-r.stop:
			return
		case p := <-r.packets:
			r.sink.Feed(p.data, p.seconds)
		}
	}
}

// deliver queues p for the reader. It blocks while the reader is behind and
// fails once the reader is stopped.
func (r *reader) deliver(p packet) error {
	select {
	case <-r.stop:
		return errPortGone
	default:
	}
	select {
	case r.packets <- p:
		return nil
	case <-r.stop:
		return errPortGone
	}
}

// shutdown stops the goroutine and waits for it. Packets still buffered are dropped.
func (r *reader) shutdown() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}
