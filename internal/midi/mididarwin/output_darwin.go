//go:build darwin
// +build darwin

package mididarwin

import (
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// OutputDriver sends to CoreMIDI destinations.
type OutputDriver struct {
	driver
}

// NewOutputDriver returns a CoreMIDI output driver.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	d, err := newDriver(options)
	if err != nil {
		return nil, err
	}
	return &OutputDriver{d}, nil
}

// PortCount returns the number of CoreMIDI destinations.
func (d *OutputDriver) PortCount() (int, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return 0, contracts.NewError(contracts.DriverError, "error listing MIDI destinations", err)
	}
	return len(destinations), nil
}

// PortName returns the display name of a destination.
func (d *OutputDriver) PortName(port int) (string, error) {
	destination, err := destinationAt(port)
	if err != nil {
		return "", err
	}
	return destination.Name(), nil
}

// OpenPort creates an output port named name bound to the destination at index port.
func (d *OutputDriver) OpenPort(port int, name string) (connection.OutputSession, error) {
	destination, err := destinationAt(port)
	if err != nil {
		return nil, err
	}
	outputPort, err := coremidi.NewOutputPort(d.client, name)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error creating output port", err)
	}
	d.logger.Info("MIDI destination selected",
		d.logger.Field().Int("port", port),
		d.logger.Field().String("destination", destination.Name()))
	return &outputSession{port: outputPort, destination: destination}, nil
}

// OpenVirtualPort is not supported by this backend.
func (d *OutputDriver) OpenVirtualPort(string) (connection.OutputSession, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APICoreMIDI)
}

type outputSession struct {
	port        coremidi.OutputPort
	destination coremidi.Destination
}

// Send schedules message for immediate delivery.
func (s *outputSession) Send(message []byte) error {
	packet := coremidi.NewPacket(message, 0)
	return packet.Send(&s.port, &s.destination)
}

func (s *outputSession) Close() error {
	return nil
}
