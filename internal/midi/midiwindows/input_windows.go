//go:build windows
// +build windows

package midiwindows

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/sys/windows"
)

const (
	sysexBuffers    = 4
	sysexBufferSize = 1024
)

// Only one callback is created for the process: windows.NewCallback slots are
// never released. Sessions are found through the instance id winmm passes back.
var (
	callbackOnce sync.Once
	callbackPtr  uintptr

	sessionsMu sync.RWMutex
	sessions   = map[uintptr]*inputSession{}
	nextID     uintptr
)

func inputCallback() uintptr {
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInCallback)
	})
	return callbackPtr
}

func register(s *inputSession) uintptr {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	nextID++
	sessions[nextID] = s
	return nextID
}

func unregister(id uintptr) {
	sessionsMu.Lock()
	delete(sessions, id)
	sessionsMu.Unlock()
}

func lookup(id uintptr) *inputSession {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	return sessions[id]
}

// InputDriver receives from WinMM input devices.
type InputDriver struct {
	logger contracts.Logger
}

// NewInputDriver returns a WinMM input driver.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	return &InputDriver{logger: options.Logger}, nil
}

func (d *InputDriver) API() contracts.API { return contracts.APIWindowsMM }

// PortCount returns the number of MIDI input devices.
func (d *InputDriver) PortCount() (int, error) {
	return inputCount(), nil
}

// PortName returns the product name of an input device.
func (d *InputDriver) PortName(port int) (string, error) {
	if err := connection.CheckPort(port, inputCount()); err != nil {
		return "", err
	}
	name, err := inputName(port)
	if err != nil {
		return "", contracts.NewError(contracts.DriverError, "error reading input device capabilities", err)
	}
	return name, nil
}

// OpenPort opens the input device at index port, queues the sysex buffers and
// starts input.
func (d *InputDriver) OpenPort(port int, name string, sink pipeline.Sink) (connection.Session, error) {
	if err := connection.CheckPort(port, inputCount()); err != nil {
		return nil, err
	}

	s := &inputSession{sink: sink}
	s.id = register(s)

	err := call(procMidiInOpen,
		uintptr(unsafe.Pointer(&s.handle)),
		uintptr(port),
		inputCallback(),
		s.id,
		uintptr(CALLBACK_FUNCTION|MIDI_IO_STATUS),
	)
	if err != nil {
		unregister(s.id)
		return nil, contracts.NewError(contracts.DriverError, "error opening MIDI input device", err)
	}

	if err := s.queueBuffers(); err != nil {
		return nil, multierr.Append(
			contracts.NewError(contracts.DriverError, "error preparing sysex buffers", err),
			s.Close())
	}
	if err := call(procMidiInStart, uintptr(s.handle)); err != nil {
		return nil, multierr.Append(
			contracts.NewError(contracts.DriverError, "error starting MIDI input", err),
			s.Close())
	}

	d.logger.Info("MIDI input device opened", d.logger.Field().Int("port", port))
	return s, nil
}

// OpenVirtualPort is not supported: WinMM has no virtual ports.
func (d *InputDriver) OpenVirtualPort(string, pipeline.Sink) (connection.Session, error) {
	return nil, connection.ErrVirtualUnsupported(contracts.APIWindowsMM)
}

// inputSession is fed on the winmm callback thread, which holds mu for every
// delivery. Close takes mu after the device is closed to wait for it.
type inputSession struct {
	id     uintptr
	handle HMIDIIN
	sink   pipeline.Sink

	headers [sysexBuffers]*midiHdr
	buffers [sysexBuffers][]byte

	closing atomic.Bool
	mu      sync.Mutex
}

func (s *inputSession) queueBuffers() error {
	for i := range s.headers {
		s.buffers[i] = make([]byte, sysexBufferSize)
		h := &midiHdr{
			lpData:         uintptr(unsafe.Pointer(&s.buffers[i][0])),
			dwBufferLength: sysexBufferSize,
			dwUser:         uintptr(i),
		}
		s.headers[i] = h
		if err := call(procMidiInPrepareHeader, uintptr(s.handle), uintptr(unsafe.Pointer(h)), unsafe.Sizeof(*h)); err != nil {
			return err
		}
		if err := call(procMidiInAddBuffer, uintptr(s.handle), uintptr(unsafe.Pointer(h)), unsafe.Sizeof(*h)); err != nil {
			return err
		}
	}
	return nil
}

// header finds the buffer header winmm returned by its address.
func (s *inputSession) header(addr uintptr) (int, *midiHdr) {
	for i, h := range s.headers {
		if h != nil && uintptr(unsafe.Pointer(h)) == addr {
			return i, h
		}
	}
	return -1, nil
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uintptr, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	s := lookup(dwInstance)
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case carriesShortMessage(wMsg):
		// dwParam1 packs status and data bytes; dwParam2 is milliseconds since midiInStart.
		s.sink.Feed(unpackShort(dwParam1), pipeline.SecondsFromMillis(uint32(dwParam2)))
	case wMsg == MIM_LONGDATA:
		i, h := s.header(dwParam1)
		if h == nil {
			return 0
		}
		if n := int(h.dwBytesRecorded); n > 0 && !s.closing.Load() {
			s.sink.Feed(s.buffers[i][:n], pipeline.SecondsFromMillis(uint32(dwParam2)))
		}
		if !s.closing.Load() {
			if err := call(procMidiInAddBuffer, uintptr(s.handle), dwParam1, unsafe.Sizeof(*h)); err != nil {
				_ = s.sink.Report(contracts.DriverError, "error requeueing sysex buffer: "+err.Error())
			}
		}
	case wMsg == MIM_ERROR, wMsg == MIM_LONGERROR:
		_ = s.sink.Report(contracts.Warning, "MIDI input driver reported invalid data")
	}
	return 0
}

// Close resets the device so winmm hands back the sysex buffers, closes it and
// waits for a callback in flight.
func (s *inputSession) Close() error {
	s.closing.Store(true)
	err := multierr.Combine(
		call(procMidiInReset, uintptr(s.handle)),
		call(procMidiInStop, uintptr(s.handle)),
	)
	for _, h := range s.headers {
		if h != nil {
			err = multierr.Append(err, call(procMidiInUnprepareHdr, uintptr(s.handle), uintptr(unsafe.Pointer(h)), unsafe.Sizeof(*h)))
		}
	}
	err = multierr.Append(err, call(procMidiInClose, uintptr(s.handle)))

	s.mu.Lock()
	unregister(s.id)
	s.mu.Unlock()
	return err
}
