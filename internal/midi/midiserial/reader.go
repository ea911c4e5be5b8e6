package midiserial

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

const readBufferSize = 256

// reader is the producer goroutine of a serial input.
type reader struct {
	stream  io.ReadCloser
	sink    pipeline.Sink
	clock   pipeline.Monotonic
	running pipeline.RunningStatus

	stopping atomic.Bool
	wg       sync.WaitGroup
}

func startReader(stream io.ReadCloser, sink pipeline.Sink) *reader {
	r := &reader{stream: stream, sink: sink, clock: pipeline.NewMonotonic()}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *reader) run() {
	defer r.wg.Done()
	buf := make([]byte, readBufferSize)
	for {
		n, err := r.stream.Read(buf)
		if r.stopping.Load() {
			return
		}
		if n > 0 {
			r.sink.Feed(r.running.Expand(buf[:n]), r.clock.Now())
		}
		if err != nil {
			_ = r.sink.Report(contracts.DriverError, "error reading serial MIDI input: "+err.Error())
			return
		}
	}
}

// Close unblocks the pending read by closing the port, then joins the reader.
func (r *reader) Close() error {
	r.stopping.Store(true)
	err := r.stream.Close()
	r.wg.Wait()
	return err
}
