//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Available reports whether the backend is compiled in.
const Available = true

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_NULL     = 0x00000000 // No callback
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

const (
	MHDR_DONE = 0x00000001

	MIDIERR_STILLPLAYING = 65
)

// Struct representing MIDI input device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// midiHdr mirrors MIDIHDR, the buffer header of long (sysex) messages.
type midiHdr struct {
	lpData          uintptr
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// Load the winmm.dll library and required functions
var (
	winmm                    = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs     = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps     = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen           = winmm.NewProc("midiInOpen")
	procMidiInStart          = winmm.NewProc("midiInStart")
	procMidiInStop           = winmm.NewProc("midiInStop")
	procMidiInReset          = winmm.NewProc("midiInReset")
	procMidiInClose          = winmm.NewProc("midiInClose")
	procMidiInPrepareHeader  = winmm.NewProc("midiInPrepareHeader")
	procMidiInUnprepareHdr   = winmm.NewProc("midiInUnprepareHeader")
	procMidiInAddBuffer      = winmm.NewProc("midiInAddBuffer")
	procMidiOutGetNumDevs    = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps    = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen          = winmm.NewProc("midiOutOpen")
	procMidiOutClose         = winmm.NewProc("midiOutClose")
	procMidiOutReset         = winmm.NewProc("midiOutReset")
	procMidiOutShortMsg      = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg       = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepareHdr  = winmm.NewProc("midiOutUnprepareHeader")
)

// mmError describes a failed MMRESULT.
type mmError struct {
	op   string
	code uintptr
}

func (e *mmError) Error() string {
	return fmt.Sprintf("%s failed with MMRESULT %d", e.op, e.code)
}

// call invokes proc and turns a non-zero MMRESULT into an error.
//
//go:uintptrescapes
func call(proc *windows.LazyProc, args ...uintptr) error {
	r1, _, _ := proc.Call(args...)
	if r1 != 0 {
		return &mmError{op: proc.Name, code: r1}
	}
	return nil
}

func inputName(port int) (string, error) {
	var caps midiInCaps
	if err := call(procMidiInGetDevCaps, uintptr(port), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); err != nil {
		return "", err
	}
	return windows.UTF16ToString(caps.szPname[:]), nil
}

func outputName(port int) (string, error) {
	var caps midiOutCaps
	if err := call(procMidiOutGetDevCaps, uintptr(port), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); err != nil {
		return "", err
	}
	return windows.UTF16ToString(caps.szPname[:]), nil
}

func inputCount() int {
	r0, _, _ := procMidiInGetNumDevs.Call()
	return int(uint32(r0))
}

func outputCount() int {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	return int(uint32(r0))
}
