//go:build linux

package midilinux

import (
	"errors"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"golang.org/x/sys/unix"
)

// OutputDriver writes rawmidi devices.
type OutputDriver struct {
	driver
}

// NewOutputDriver returns an ALSA rawmidi output driver.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	return &OutputDriver{driver{logger: options.Logger}}, nil
}

// OpenPort opens the device at index port for writing.
func (d *OutputDriver) OpenPort(port int, name string) (connection.OutputSession, error) {
	dev, err := d.device(port)
	if err != nil {
		return nil, err
	}
	fd, err := openDevice(dev.path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error opening "+dev.path, err)
	}
	return &writer{fd: fd}, nil
}

// OpenVirtualPort is not supported: rawmidi has no virtual ports.
func (d *OutputDriver) OpenVirtualPort(string) (connection.OutputSession, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APIALSA)
}

type writer struct {
	fd int
}

func (w *writer) Send(message []byte) error {
	for len(message) > 0 {
		n, err := unix.Write(w.fd, message)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		message = message[n:]
	}
	return nil
}

func (w *writer) Close() error {
	return unix.Close(w.fd)
}
