// Package midiserial reads and writes MIDI over serial ports: DIN MIDI through a
// UART at 31250 baud or USB-serial bridges at a higher rate.
package midiserial

import (
	"io"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.bug.st/serial"
	"go.uber.org/multierr"
)

// Available reports whether the backend is compiled in.
const Available = true

// DefaultBaudRate is the DIN MIDI line rate.
const DefaultBaudRate = 31250

var (
	listPorts  = serial.GetPortsList
	openStream = openSerial
)

func openSerial(name string, config contracts.SerialConfig) (io.ReadWriteCloser, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: config.BaudRate})
	if err != nil {
		return nil, err
	}
	if config.ReadTimeout > 0 {
		if err := p.SetReadTimeout(config.ReadTimeout); err != nil {
			return nil, multierr.Append(err, p.Close())
		}
	}
	return p, nil
}

type driver struct {
	config contracts.SerialConfig
	logger contracts.Logger
}

func newDriver(options *contracts.ClientOptions) driver {
	config := contracts.SerialConfig{BaudRate: DefaultBaudRate}
	if options.SerialConfig != nil {
		config = *options.SerialConfig
		if config.BaudRate <= 0 {
			config.BaudRate = DefaultBaudRate
		}
	}
	return driver{config: config, logger: options.Logger}
}

func (d driver) API() contracts.API { return contracts.APISerial }

func (d driver) PortCount() (int, error) {
	ports, err := listPorts()
	if err != nil {
		return 0, err
	}
	return len(ports), nil
}

func (d driver) PortName(port int) (string, error) {
	ports, err := listPorts()
	if err != nil {
		return "", err
	}
	if err := connection.CheckPort(port, len(ports)); err != nil {
		return "", err
	}
	return ports[port], nil
}

func (d driver) open(port int) (io.ReadWriteCloser, string, error) {
	name, err := d.PortName(port)
	if err != nil {
		return nil, "", err
	}
	stream, err := openStream(name, d.config)
	if err != nil {
		return nil, "", contracts.NewError(contracts.DriverError, "error opening serial port "+name, err)
	}
	d.logger.Debug("serial port opened",
		d.logger.Field().String("device", name),
		d.logger.Field().Int("baud", d.config.BaudRate))
	return stream, name, nil
}

// InputDriver reads MIDI bytes from serial ports.
type InputDriver struct {
	driver
}

// NewInputDriver returns a serial input driver.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	return &InputDriver{newDriver(options)}, nil
}

// OpenPort opens the serial device at index port and starts its reader.
func (d *InputDriver) OpenPort(port int, name string, sink pipeline.Sink) (connection.Session, error) {
	stream, _, err := d.open(port)
	if err != nil {
		return nil, err
	}
	return startReader(stream, sink), nil
}

// OpenVirtualPort is not supported: a serial line is always a physical port.
func (d *InputDriver) OpenVirtualPort(string, pipeline.Sink) (connection.Session, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APISerial)
}

// OutputDriver writes MIDI bytes to serial ports.
type OutputDriver struct {
	driver
}

// NewOutputDriver returns a serial output driver.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	return &OutputDriver{newDriver(options)}, nil
}

// OpenPort opens the serial device at index port for writing.
func (d *OutputDriver) OpenPort(port int, name string) (connection.OutputSession, error) {
	stream, _, err := d.open(port)
	if err != nil {
		return nil, err
	}
	return &writer{stream: stream}, nil
}

// OpenVirtualPort is not supported.
func (d *OutputDriver) OpenVirtualPort(string) (connection.OutputSession, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APISerial)
}

type writer struct {
	stream io.WriteCloser
}

// Send writes message whole. A serial line carries no message framing, so a
// short write is retried until every byte is out.
func (w *writer) Send(message []byte) error {
	for len(message) > 0 {
		n, err := w.stream.Write(message)
		if err != nil {
			return err
		}
		message = message[n:]
	}
	return nil
}

func (w *writer) Close() error {
	return w.stream.Close()
}
