package midiloopback

import (
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// InputDriver lists the sources of a bus and opens readers on them.
type InputDriver struct {
	bus    *Bus
	logger contracts.Logger
}

// OutputDriver lists the destinations of a bus and sends to them.
type OutputDriver struct {
	bus    *Bus
	logger contracts.Logger
}

// NewInputDriver returns an input driver on DefaultBus.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	return DefaultBus.InputDriver(options.Logger), nil
}

// NewOutputDriver returns an output driver on DefaultBus.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	return DefaultBus.OutputDriver(options.Logger), nil
}

// InputDriver returns an input driver on b.
func (b *Bus) InputDriver(logger contracts.Logger) *InputDriver {
	return &InputDriver{bus: b, logger: logger}
}

// OutputDriver returns an output driver on b.
func (b *Bus) OutputDriver(logger contracts.Logger) *OutputDriver {
	return &OutputDriver{bus: b, logger: logger}
}

func (d *InputDriver) API() contracts.API { return contracts.APILoopback }

// PortCount returns the number of virtual outputs on the bus.
func (d *InputDriver) PortCount() (int, error) {
	return len(d.bus.sourceNames()), nil
}

func (d *InputDriver) PortName(port int) (string, error) {
	names := d.bus.sourceNames()
	if err := connection.CheckPort(port, len(names)); err != nil {
		return "", err
	}
	return names[port], nil
}

// OpenPort subscribes a new reader to the source at index port.
func (d *InputDriver) OpenPort(port int, name string, sink pipeline.Sink) (connection.Session, error) {
	src, err := d.bus.sourceAt(port)
	if err != nil {
		return nil, err
	}
	r := newReader(name, sink)
	src.subscribe(r)
	d.logger.Debug("loopback input subscribed",
		d.logger.Field().String("source", src.name),
		d.logger.Field().String("name", name))
	return &inputSession{reader: r, close: func() { src.unsubscribe(r) }}, nil
}

// OpenVirtualPort publishes a new destination outputs can open.
func (d *InputDriver) OpenVirtualPort(name string, sink pipeline.Sink) (connection.Session, error) {
	r := newReader(name, sink)
	d.bus.addDestination(r)
	d.logger.Debug("loopback destination created", d.logger.Field().String("name", name))
	return &inputSession{reader: r, close: func() { d.bus.removeDestination(r) }}, nil
}

type inputSession struct {
	reader *reader
	close  func()
}

// Close detaches the reader from the bus first so no new sends reach it.
func (s *inputSession) Close() error {
	s.close()
	s.reader.shutdown()
	return nil
}

func (d *OutputDriver) API() contracts.API { return contracts.APILoopback }

// PortCount returns the number of virtual inputs on the bus.
func (d *OutputDriver) PortCount() (int, error) {
	return len(d.bus.destinationNames()), nil
}

func (d *OutputDriver) PortName(port int) (string, error) {
	names := d.bus.destinationNames()
	if err := connection.CheckPort(port, len(names)); err != nil {
		return "", err
	}
	return names[port], nil
}

// OpenPort connects to the destination at index port.
func (d *OutputDriver) OpenPort(port int, name string) (connection.OutputSession, error) {
	dst, err := d.bus.destinationAt(port)
	if err != nil {
		return nil, err
	}
	return &destinationSession{bus: d.bus, dst: dst}, nil
}

// OpenVirtualPort publishes a new source inputs can open.
func (d *OutputDriver) OpenVirtualPort(name string) (connection.OutputSession, error) {
	src := d.bus.addSource(name)
	d.logger.Debug("loopback source created", d.logger.Field().String("name", name))
	return &sourceSession{bus: d.bus, src: src}, nil
}

type destinationSession struct {
	bus *Bus
	dst *reader
}

func (s *destinationSession) Send(message []byte) error {
	if err := s.dst.deliver(s.bus.stamp(message)); err != nil {
		return contracts.NewError(contracts.InvalidStream, "loopback destination "+s.dst.name+" is gone", err)
	}
	return nil
}

func (s *destinationSession) Close() error { return nil }

type sourceSession struct {
	bus *Bus
	src *source
}

func (s *sourceSession) Send(message []byte) error {
	s.src.deliver(s.bus.stamp(message))
	return nil
}

func (s *sourceSession) Close() error {
	s.bus.removeSource(s.src)
	return nil
}
