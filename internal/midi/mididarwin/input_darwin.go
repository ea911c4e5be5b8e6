//go:build darwin
// +build darwin

package mididarwin

import (
	"sync"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// InputDriver receives from CoreMIDI sources.
type InputDriver struct {
	driver
}

// NewInputDriver returns a CoreMIDI input driver.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	d, err := newDriver(options)
	if err != nil {
		return nil, err
	}
	return &InputDriver{d}, nil
}

// PortCount returns the number of CoreMIDI sources.
func (d *InputDriver) PortCount() (int, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return 0, contracts.NewError(contracts.DriverError, "error listing MIDI sources", err)
	}
	return len(sources), nil
}

// PortName returns the display name of a source.
func (d *InputDriver) PortName(port int) (string, error) {
	source, err := sourceAt(port)
	if err != nil {
		return "", err
	}
	return source.Name(), nil
}

// OpenPort creates an input port named name and connects it to the source at index port.
func (d *InputDriver) OpenPort(port int, name string, sink pipeline.Sink) (connection.Session, error) {
	source, err := sourceAt(port)
	if err != nil {
		return nil, err
	}

	s := &inputSession{sink: sink, clock: pipeline.NewMonotonic()}
	inputPort, err := coremidi.NewInputPort(d.client, name, s.handlePacket)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error creating input port", err)
	}
	s.conn, err = inputPort.Connect(source)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error connecting to MIDI source "+source.Name(), err)
	}

	d.logger.Info("MIDI source connected",
		d.logger.Field().Int("port", port),
		d.logger.Field().String("source", source.Name()),
		d.logger.Field().String("manufacturer", source.Entity().Manufacturer()))
	return s, nil
}

// OpenVirtualPort is not supported by this backend.
func (d *InputDriver) OpenVirtualPort(string, pipeline.Sink) (connection.Session, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APICoreMIDI)
}

// inputSession is fed on the CoreMIDI read thread. mu lets Close wait for a
// callback in flight: handlePacket holds it shared, Close takes it exclusively.
type inputSession struct {
	sink  pipeline.Sink
	clock pipeline.Monotonic
	conn  internalPortConnection

	mu     sync.RWMutex
	closed bool
}

// handlePacket forwards one CoreMIDI packet. A packet may hold several messages
// or a slice of a sysex message; the pipeline reassembles both.
func (s *inputSession) handlePacket(_ coremidi.Source, packet coremidi.Packet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || len(packet.Data) == 0 {
		return
	}
	s.sink.Feed(packet.Data, s.clock.Now())
}

// Close disconnects the source, then waits for a running callback to return.
func (s *inputSession) Close() error {
	s.conn.Disconnect()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
