package connection

import (
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Output is a MIDI output connection.
type Output struct {
	conn
	driver  OutputDriver
	session OutputSession
}

var _ contracts.MIDIOut = (*Output)(nil)

// NewOutput creates a closed output on driver. options must have defaults applied.
func NewOutput(driver OutputDriver, options *contracts.ClientOptions) *Output {
	return &Output{
		conn:   newConn("output", driver, options),
		driver: driver,
	}
}

// OpenPort connects to the output port at index port.
func (out *Output) OpenPort(port int, name string) error {
	out.mu.Lock()
	defer out.mu.Unlock()

	if ok, err := out.checkOpen(port); !ok {
		return err
	}
	return out.open(port, out.portLabel(port), false, func() (OutputSession, error) {
		return out.driver.OpenPort(port, name)
	})
}

// OpenVirtualPort creates an output port other software can receive from.
func (out *Output) OpenVirtualPort(name string) error {
	out.mu.Lock()
	defer out.mu.Unlock()

	if ok, err := out.checkOpenVirtual(); !ok {
		return err
	}
	return out.open(-1, name, true, func() (OutputSession, error) {
		return out.driver.OpenVirtualPort(name)
	})
}

func (out *Output) open(port int, label string, virtual bool, start func() (OutputSession, error)) error {
	out.state.store(StateOpening)
	session, err := start()
	if err != nil {
		out.state.store(StateClosed)
		return out.fail("error opening MIDI output port", err)
	}
	out.session = session
	out.opened(port, label, virtual)
	return nil
}

// Close releases the port. Closing a closed output is a no-op.
func (out *Output) Close() error {
	out.mu.Lock()
	defer out.mu.Unlock()

	if out.state.load() != StateOpen {
		return nil
	}
	out.state.store(StateClosing)
	err := out.session.Close()
	out.session = nil
	out.state.store(StateClosed)

	if err != nil {
		return out.fail("error closing MIDI output port", err)
	}
	out.reporter.Info("MIDI output port closed")
	return nil
}

// SendMessage writes one complete MIDI message.
func (out *Output) SendMessage(message []byte) error {
	if len(message) == 0 {
		return out.reporter.Report(contracts.InvalidParameter, "message argument is empty")
	}

	out.mu.Lock()
	defer out.mu.Unlock()

	if out.state.load() != StateOpen {
		return out.reporter.Wrap(contracts.InvalidUse, "output port is not open", contracts.ErrClosed)
	}
	if err := out.session.Send(message); err != nil {
		return out.fail("error sending MIDI message", err)
	}
	return nil
}
