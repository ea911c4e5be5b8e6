//go:build linux

package midilinux

import (
	"errors"
	"sync"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

const readBufferSize = 1024

var openDevice = unix.Open

// InputDriver reads rawmidi devices.
type InputDriver struct {
	driver
}

// NewInputDriver returns an ALSA rawmidi input driver.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	return &InputDriver{driver{logger: options.Logger}}, nil
}

// OpenPort opens the device at index port and starts a reader goroutine on it.
func (d *InputDriver) OpenPort(port int, name string, sink pipeline.Sink) (connection.Session, error) {
	dev, err := d.device(port)
	if err != nil {
		return nil, err
	}
	fd, err := openDevice(dev.path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error opening "+dev.path, err)
	}

	var pipe [2]int
	if err := unix.Pipe2(pipe[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		_ = unix.Close(fd)
		return nil, contracts.NewError(contracts.ThreadError, "error creating reader stop pipe", err)
	}

	r := &reader{fd: fd, wake: pipe, sink: sink, clock: pipeline.NewMonotonic()}
	r.wg.Add(1)
	go r.run()

	d.logger.Debug("rawmidi input opened",
		d.logger.Field().String("device", dev.path),
		d.logger.Field().String("name", dev.name))
	return r, nil
}

// OpenVirtualPort is not supported: rawmidi has no virtual ports.
func (d *InputDriver) OpenVirtualPort(string, pipeline.Sink) (connection.Session, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APIALSA)
}

// reader polls the device and the read end of a self-pipe. Writing to the pipe
// is the stop signal.
type reader struct {
	fd      int
	wake    [2]int
	sink    pipeline.Sink
	clock   pipeline.Monotonic
	running pipeline.RunningStatus
	wg      sync.WaitGroup
}

func (r *reader) run() {
	defer r.wg.Done()
	buf := make([]byte, readBufferSize)
	fds := []unix.PollFd{
		{Fd: int32(r.fd), Events: unix.POLLIN},
		{Fd: int32(r.wake[0]), Events: unix.POLLIN},
	}
	for {
		if _, err := unix.Poll(fds, -1); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			_ = r.sink.Report(contracts.SystemError, "rawmidi poll failed: "+err.Error())
			return
		}
		if fds[1].Revents != 0 {
			return
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			_ = r.sink.Report(contracts.DriverError, "rawmidi device was disconnected")
			return
		}
		if fds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(r.fd, buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			_ = r.sink.Report(contracts.DriverError, "error reading rawmidi input: "+err.Error())
			return
		case n == 0:
			_ = r.sink.Report(contracts.DriverError, "rawmidi input reached end of file")
			return
		}
		r.sink.Feed(r.running.Expand(buf[:n]), r.clock.Now())
	}
}

// Close wakes the reader, joins it and then releases the descriptors.
func (r *reader) Close() error {
	_, err := unix.Write(r.wake[1], []byte{0})
	r.wg.Wait()
	return multierr.Combine(
		err,
		unix.Close(r.fd),
		unix.Close(r.wake[0]),
		unix.Close(r.wake[1]),
	)
}
