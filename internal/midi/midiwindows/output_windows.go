//go:build windows
// +build windows

package midiwindows

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/multierr"
)

// OutputDriver sends to WinMM output devices.
type OutputDriver struct {
	logger contracts.Logger
}

// NewOutputDriver returns a WinMM output driver.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	return &OutputDriver{logger: options.Logger}, nil
}

func (d *OutputDriver) API() contracts.API { return contracts.APIWindowsMM }

// PortCount returns the number of MIDI output devices.
func (d *OutputDriver) PortCount() (int, error) {
	return outputCount(), nil
}

// PortName returns the product name of an output device.
func (d *OutputDriver) PortName(port int) (string, error) {
	if err := connection.CheckPort(port, outputCount()); err != nil {
		return "", err
	}
	name, err := outputName(port)
	if err != nil {
		return "", contracts.NewError(contracts.DriverError, "error reading output device capabilities", err)
	}
	return name, nil
}

// OpenPort opens the output device at index port.
func (d *OutputDriver) OpenPort(port int, name string) (connection.OutputSession, error) {
	if err := connection.CheckPort(port, outputCount()); err != nil {
		return nil, err
	}
	s := &outputSession{}
	if err := call(procMidiOutOpen, uintptr(unsafe.Pointer(&s.handle)), uintptr(port), 0, 0, CALLBACK_NULL); err != nil {
		return nil, contracts.NewError(contracts.DriverError, "error opening MIDI output device", err)
	}
	d.logger.Info("MIDI output device opened", d.logger.Field().Int("port", port))
	return s, nil
}

// OpenVirtualPort is not supported: WinMM has no virtual ports.
func (d *OutputDriver) OpenVirtualPort(string) (connection.OutputSession, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APIWindowsMM)
}

type outputSession struct {
	handle HMIDIOUT
}

// Send uses midiOutShortMsg for channel and system common messages and a
// prepared long buffer for sysex.
func (s *outputSession) Send(message []byte) error {
	if isShort(message) {
		return call(procMidiOutShortMsg, uintptr(s.handle), uintptr(packShort(message)))
	}
	return s.sendLong(message)
}

func (s *outputSession) sendLong(message []byte) error {
	buf := append([]byte(nil), message...)
	h := &midiHdr{
		lpData:         uintptr(unsafe.Pointer(&buf[0])),
		dwBufferLength: uint32(len(buf)),
	}
	size := unsafe.Sizeof(*h)
	if err := call(procMidiOutPrepareHeader, uintptr(s.handle), uintptr(unsafe.Pointer(h)), size); err != nil {
		return err
	}
	err := call(procMidiOutLongMsg, uintptr(s.handle), uintptr(unsafe.Pointer(h)), size)
	if err == nil {
		for atomic.LoadUint32(&h.dwFlags)&MHDR_DONE == 0 {
			time.Sleep(time.Millisecond)
		}
	}
	for {
		uerr := call(procMidiOutUnprepareHdr, uintptr(s.handle), uintptr(unsafe.Pointer(h)), size)
		if e, ok := uerr.(*mmError); ok && e.code == MIDIERR_STILLPLAYING {
			time.Sleep(time.Millisecond)
			continue
		}
		return multierr.Append(err, uerr)
	}
}

func (s *outputSession) Close() error {
	return multierr.Combine(
		call(procMidiOutReset, uintptr(s.handle)),
		call(procMidiOutClose, uintptr(s.handle)),
	)
}
