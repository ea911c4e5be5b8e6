//go:build rtmidi

// Package midirtmidi runs the pipeline on top of the RtMidi C++ library through
// gitlab.com/gomidi/midi/v2/drivers/rtmididrv. It needs cgo and the rtmidi build tag.
package midirtmidi

import (
	"sync"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Available reports whether the backend is compiled in.
const Available = true

var (
	driverOnce sync.Once
	rtDriver   *rtmididrv.Driver
	driverErr  error
)

func sharedDriver() (*rtmididrv.Driver, error) {
	driverOnce.Do(func() {
		rtDriver, driverErr = rtmididrv.New()
	})
	if driverErr != nil {
		return nil, contracts.NewError(contracts.DriverError, "error initializing rtmidi", driverErr)
	}
	return rtDriver, nil
}

// InputDriver lists and opens rtmidi inputs.
type InputDriver struct {
	drv    *rtmididrv.Driver
	logger contracts.Logger
}

// NewInputDriver returns an rtmidi input driver.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	drv, err := sharedDriver()
	if err != nil {
		return nil, err
	}
	return &InputDriver{drv: drv, logger: options.Logger}, nil
}

func (d *InputDriver) API() contracts.API { return contracts.APIRtMidi }

func (d *InputDriver) PortCount() (int, error) {
	ins, err := d.drv.Ins()
	return len(ins), err
}

func (d *InputDriver) PortName(port int) (string, error) {
	in, err := d.in(port)
	if err != nil {
		return "", err
	}
	return in.String(), nil
}

func (d *InputDriver) in(port int) (drivers.In, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, err
	}
	if err := connection.CheckPort(port, len(ins)); err != nil {
		return nil, err
	}
	return ins[port], nil
}

// OpenPort opens the input at index port and listens to it.
func (d *InputDriver) OpenPort(port int, name string, sink pipeline.Sink) (connection.Session, error) {
	in, err := d.in(port)
	if err != nil {
		return nil, err
	}
	if err := in.Open(); err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error opening "+in.String(), err)
	}
	return listen(in, sink)
}

// OpenVirtualPort creates an rtmidi virtual input.
func (d *InputDriver) OpenVirtualPort(name string, sink pipeline.Sink) (connection.Session, error) {
	in, err := d.drv.OpenVirtualIn(name)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error creating virtual input "+name, err)
	}
	return listen(in, sink)
}

// listen receives every message class: the pipeline filter decides what to drop,
// so changing IgnoreTypes never needs a restart.
func listen(in drivers.In, sink pipeline.Sink) (connection.Session, error) {
	s := &inputSession{in: in, sink: sink}
	stop, err := in.Listen(s.handle, drivers.ListenConfig{
		SysEx:       true,
		TimeCode:    true,
		ActiveSense: true,
		OnErr: func(err error) {
			_ = sink.Report(contracts.DriverError, "rtmidi input error: "+err.Error())
		},
	})
	if err != nil {
		_ = in.Close()
		return nil, contracts.NewError(contracts.DriverError, "error listening to "+in.String(), err)
	}
	s.stop = stop
	return s, nil
}

type inputSession struct {
	in   drivers.In
	sink pipeline.Sink
	stop func()

	mu     sync.RWMutex
	closed bool
}

func (s *inputSession) handle(msg []byte, milliseconds int32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	s.sink.Feed(msg, pipeline.SecondsFromMillis(milliseconds))
}

func (s *inputSession) Close() error {
	s.stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.in.Close()
}

// OutputDriver lists and opens rtmidi outputs.
type OutputDriver struct {
	drv    *rtmididrv.Driver
	logger contracts.Logger
}

// NewOutputDriver returns an rtmidi output driver.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	drv, err := sharedDriver()
	if err != nil {
		return nil, err
	}
	return &OutputDriver{drv: drv, logger: options.Logger}, nil
}

func (d *OutputDriver) API() contracts.API { return contracts.APIRtMidi }

func (d *OutputDriver) PortCount() (int, error) {
	outs, err := d.drv.Outs()
	return len(outs), err
}

func (d *OutputDriver) PortName(port int) (string, error) {
	out, err := d.out(port)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func (d *OutputDriver) out(port int) (drivers.Out, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, err
	}
	if err := connection.CheckPort(port, len(outs)); err != nil {
		return nil, err
	}
	return outs[port], nil
}

// OpenPort opens the output at index port.
func (d *OutputDriver) OpenPort(port int, name string) (connection.OutputSession, error) {
	out, err := d.out(port)
	if err != nil {
		return nil, err
	}
	if err := out.Open(); err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error opening "+out.String(), err)
	}
	return outputSession{out}, nil
}

// OpenVirtualPort creates an rtmidi virtual output.
func (d *OutputDriver) OpenVirtualPort(name string) (connection.OutputSession, error) {
	out, err := d.drv.OpenVirtualOut(name)
	if err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error creating virtual output "+name, err)
	}
	return outputSession{out}, nil
}

type outputSession struct {
	out drivers.Out
}

func (s outputSession) Send(message []byte) error { return s.out.Send(message) }

func (s outputSession) Close() error { return s.out.Close() }
