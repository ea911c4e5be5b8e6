package midiwindows

import "github.com/leandrodaf/rtmidi/internal/midi/pipeline"

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // System exclusive buffer filled
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// carriesShortMessage reports whether an input callback message packs a short MIDI
// message into dwParam1. With MIDI_IO_STATUS, winmm sends MIM_MOREDATA instead of
// MIM_DATA while the callback lags behind.
func carriesShortMessage(wMsg uintptr) bool {
	return wMsg == MIM_DATA || wMsg == MIM_MOREDATA
}

// unpackShort extracts the message winmm packs into the first parameter of
// MIM_DATA: status in the low byte, then up to two data bytes.
func unpackShort(param uintptr) []byte {
	msg := []byte{byte(param), byte(param >> 8), byte(param >> 16)}
	n := pipeline.MessageLength(msg[0])
	if n < 1 || n > 3 {
		n = 1
	}
	return msg[:n]
}

// packShort is the inverse of unpackShort for midiOutShortMsg.
func packShort(message []byte) uint32 {
	var packed uint32
	for i, b := range message[:min(len(message), 3)] {
		packed |= uint32(b) << (8 * i)
	}
	return packed
}

// isShort reports whether message fits midiOutShortMsg.
func isShort(message []byte) bool {
	return len(message) > 0 && len(message) <= 3 && message[0] != 0xF0
}
