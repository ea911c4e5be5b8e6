package connection

import (
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Input is a MIDI input connection. It owns one pipeline for its whole life and
// resets it whenever a port is opened.
type Input struct {
	conn
	driver  InputDriver
	pipe    *pipeline.Pipeline
	session Session
}

var _ contracts.MIDIIn = (*Input)(nil)

// NewInput creates a closed input on driver. options must have defaults applied.
func NewInput(driver InputDriver, options *contracts.ClientOptions) *Input {
	in := &Input{
		conn:   newConn("input", driver, options),
		driver: driver,
	}
	in.pipe = pipeline.New(options.QueueSize, in.reporter)
	if options.Ignore != nil {
		in.pipe.Filter().Apply(*options.Ignore)
	}
	return in
}

// OpenPort connects to the input port at index port. name labels the
// connection on backends that show it to other software.
func (in *Input) OpenPort(port int, name string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if ok, err := in.checkOpen(port); !ok {
		return err
	}
	return in.open(port, in.portLabel(port), false, func() (Session, error) {
		return in.driver.OpenPort(port, name, in.pipe)
	})
}

// OpenVirtualPort creates an input port other software can send to.
func (in *Input) OpenVirtualPort(name string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if ok, err := in.checkOpenVirtual(); !ok {
		return err
	}
	return in.open(-1, name, true, func() (Session, error) {
		return in.driver.OpenVirtualPort(name, in.pipe)
	})
}

func (in *Input) open(port int, label string, virtual bool, start func() (Session, error)) error {
	in.state.store(StateOpening)
	in.pipe.Reset()

	session, err := start()
	if err != nil {
		in.state.store(StateClosed)
		return in.fail("error opening MIDI input port", err)
	}
	in.session = session
	in.opened(port, label, virtual)
	return nil
}

// Close stops the backend reader, waits for it and discards any partial message.
// Queued messages stay readable until the next open. Closing a closed input is a no-op.
func (in *Input) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state.load() != StateOpen {
		return nil
	}
	in.state.store(StateClosing)
	err := in.session.Close()
	in.session = nil
	in.pipe.ResetAssembly()
	in.state.store(StateClosed)

	if err != nil {
		return in.fail("error closing MIDI input port", err)
	}
	in.reporter.Info("MIDI input port closed")
	return nil
}

// IgnoreTypes sets which message classes are dropped. It applies from the next
// byte the backend delivers.
func (in *Input) IgnoreTypes(sysex, time, sense bool) {
	in.pipe.Filter().Set(sysex, time, sense)
	in.reporter.Debug("input filter changed",
		in.logger.Field().Bool("sysex", sysex),
		in.logger.Field().Bool("time", time),
		in.logger.Field().Bool("sense", sense),
	)
}

// SetCallback delivers every following message to cb on the producer goroutine.
func (in *Input) SetCallback(cb contracts.InputCallback) error {
	var h pipeline.Handler
	if cb != nil {
		h = func(message []byte, deltaTime float64) {
			cb(in, message, deltaTime)
		}
	}
	return in.pipe.Dispatcher().SetCallback(h)
}

// CancelCallback returns delivery to the queue.
func (in *Input) CancelCallback() error {
	return in.pipe.Dispatcher().CancelCallback()
}

// Message pops the next queued message and its delta time. An empty slice means
// no message was waiting. With a callback set it reports a warning and returns empty.
func (in *Input) Message() ([]byte, float64, error) {
	m := in.pipe.Message()
	return m.Bytes, m.Timestamp, nil
}

// Stats returns the counters of the current connection.
func (in *Input) Stats() contracts.InputStats {
	return in.pipe.Stats()
}
