package contracts

import "fmt"

// API identifies a MIDI backend.
type API int

const (
	// APIUnspecified picks the first compiled native backend for the running platform.
	APIUnspecified API = iota
	// APICoreMIDI uses macOS CoreMIDI.
	APICoreMIDI
	// APIALSA uses ALSA raw MIDI devices on Linux.
	APIALSA
	// APIJACK uses the JACK low-latency server. Not compiled by this module.
	APIJACK
	// APIWindowsMM uses the Windows Multimedia MIDI API.
	APIWindowsMM
	// APIWindowsKS uses Windows Kernel Streaming. Not compiled by this module.
	APIWindowsKS
	// APIRtMidi uses the RtMidi driver of gitlab.com/gomidi (build tag "rtmidi").
	APIRtMidi
	// APISerial reads a raw MIDI byte stream from a serial device.
	APISerial
	// APILoopback is an in-process virtual port bus, always available.
	APILoopback

	numAPIs
)

var apiNames = [numAPIs][2]string{
	APIUnspecified: {"unspecified", "Unknown"},
	APICoreMIDI:    {"core", "CoreMIDI"},
	APIALSA:        {"alsa", "ALSA"},
	APIJACK:        {"jack", "Jack"},
	APIWindowsMM:   {"winmm", "Windows MultiMedia"},
	APIWindowsKS:   {"winks", "Windows Kernel Streaming"},
	APIRtMidi:      {"rtmidi", "RtMidi (gomidi driver)"},
	APISerial:      {"serial", "Serial MIDI"},
	APILoopback:    {"loopback", "Loopback"},
}

// Name returns the lower case identifier of the API.
func (a API) Name() string {
	if a < 0 || a >= numAPIs {
		return ""
	}
	return apiNames[a][0]
}

// DisplayName returns a human readable name.
func (a API) DisplayName() string {
	if a < 0 || a >= numAPIs {
		return "Unknown"
	}
	return apiNames[a][1]
}

func (a API) String() string {
	return a.Name()
}

// ParseAPI maps an identifier as returned by Name back to its API.
func ParseAPI(name string) (API, error) {
	for a := APIUnspecified; a < numAPIs; a++ {
		if apiNames[a][0] == name {
			return a, nil
		}
	}
	return APIUnspecified, fmt.Errorf("%w: unknown API %q", ErrInvalidParameter, name)
}
