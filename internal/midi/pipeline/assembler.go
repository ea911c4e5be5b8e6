package pipeline

import "sync/atomic"

// MessageLength returns the length in bytes of a message starting with status.
// Sysex (0xF0) has no fixed length and returns 0. Unknown classes and stray data
// bytes return 1.
func MessageLength(status byte) int {
	switch {
	case status >= 0x80 && status <= 0xBF, status >= 0xE0 && status <= 0xEF:
		return 3
	case status >= 0xC0 && status <= 0xDF:
		return 2
	}
	switch status {
	case 0xF0:
		return 0
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	}
	return 1
}

const (
	statusSysex    = 0xF0
	statusEndSysex = 0xF7
)

// emitFunc receives a completed message and the absolute time of its first byte.
type emitFunc func(msg []byte, anchor float64)

// Assembler rebuilds complete MIDI messages from delivery units of arbitrary size.
// It keeps the partial message between calls, so sysex and, on raw byte-stream
// backends, short messages can span several units. It is owned by the producer:
// Feed must never be called concurrently.
type Assembler struct {
	filter *Filter
	emit   emitFunc

	partial []byte
	need    int  // bytes still missing from the current short message
	inSysex bool // inside F0 ... F7
	discard bool // current message is consumed but not kept
	anchor  float64

	filtered  atomic.Uint64
	malformed atomic.Uint64
}

// NewAssembler returns an assembler that reads its flags from filter and hands
// completed messages to emit.
func NewAssembler(filter *Filter, emit emitFunc) *Assembler {
	return &Assembler{
		filter:  filter,
		emit:    emit,
		partial: make([]byte, 0, 64),
	}
}

// Reset drops any partial message.
func (a *Assembler) Reset() {
	a.partial = a.partial[:0]
	a.need = 0
	a.inSysex = false
	a.discard = false
	a.anchor = 0
	a.filtered.Store(0)
	a.malformed.Store(0)
}

// Filtered returns how many messages the ignore flags suppressed.
func (a *Assembler) Filtered() uint64 {
	return a.filtered.Load()
}

// Malformed returns how many stray data bytes and truncated messages were dropped.
func (a *Assembler) Malformed() uint64 {
	return a.malformed.Load()
}

// InSysex reports whether a sysex message is being assembled.
func (a *Assembler) InSysex() bool {
	return a.inSysex
}

// Feed consumes one delivery unit stamped with the backend time in seconds.
func (a *Assembler) Feed(data []byte, stamp float64) {
	for i := 0; i < len(data); {
		switch {
		case a.inSysex:
			i += a.continueSysex(data[i:])
		case a.need > 0:
			i += a.continueShort(data[i:], stamp)
		default:
			i += a.begin(data[i:], stamp)
		}
	}
}

// begin classifies data[0] as a status byte and returns the bytes consumed.
func (a *Assembler) begin(data []byte, stamp float64) int {
	status := data[0]
	if status < 0x80 {
		// Data byte without a status: running status is resolved by the backend.
		a.malformed.Add(1)
		return 1
	}

	a.anchor = stamp
	a.discard = a.filter.Ignores(status)
	a.partial = a.partial[:0]
	if !a.discard {
		a.partial = append(a.partial, status)
	}

	if status == statusSysex {
		a.inSysex = true
		return 1
	}

	a.need = MessageLength(status) - 1
	if a.need == 0 {
		a.complete()
	}
	return 1
}

// continueShort appends the data bytes of a short message.
func (a *Assembler) continueShort(data []byte, stamp float64) int {
	n := 0
	for n < len(data) && a.need > 0 {
		b := data[n]
		if b >= 0xF8 {
			// Realtime bytes may interleave with a message on a byte stream. The
			// message completes after a delivered realtime byte, so it cannot be
			// anchored earlier.
			if a.realtime(b, stamp) && stamp > a.anchor {
				a.anchor = stamp
			}
			n++
			continue
		}
		if b >= 0x80 {
			// A new status truncates the unfinished message.
			a.malformed.Add(1)
			a.need = 0
			a.partial = a.partial[:0]
			return n
		}
		if !a.discard {
			a.partial = append(a.partial, b)
		}
		a.need--
		n++
	}
	if a.need == 0 {
		a.complete()
	}
	return n
}

// continueSysex consumes sysex continuation bytes up to and including 0xF7.
func (a *Assembler) continueSysex(data []byte) int {
	if !a.discard && a.filter.Ignores(statusSysex) {
		a.discard = true
		a.partial = a.partial[:0]
	}
	for n, b := range data {
		if !a.discard {
			a.partial = append(a.partial, b)
		}
		if b == statusEndSysex {
			a.inSysex = false
			a.complete()
			return n + 1
		}
	}
	return len(data)
}

// realtime emits a single-byte realtime message and reports whether it was kept.
func (a *Assembler) realtime(status byte, stamp float64) bool {
	if a.filter.Ignores(status) {
		a.filtered.Add(1)
		return false
	}
	a.emit([]byte{status}, stamp)
	return true
}

func (a *Assembler) complete() {
	if a.discard {
		a.discard = false
		a.filtered.Add(1)
		a.partial = a.partial[:0]
		return
	}
	msg := make([]byte, len(a.partial))
	copy(msg, a.partial)
	a.partial = a.partial[:0]
	a.emit(msg, a.anchor)
}
