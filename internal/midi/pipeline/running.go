package pipeline

// RunningStatus restores the status byte that a raw byte stream omits when it
// repeats, so the Assembler only ever sees complete messages. Serial lines and
// ALSA rawmidi devices use running status; OS message APIs resolve it themselves.
// It belongs to the producer, like the Assembler.
type RunningStatus struct {
	status  byte // last channel voice status, 0 when cleared
	need    int
	inSysex bool
	out     []byte
}

// Expand returns data with the omitted status bytes inserted. The returned slice
// is reused by the next call.
func (r *RunningStatus) Expand(data []byte) []byte {
	r.out = r.out[:0]
	for _, b := range data {
		switch {
		case b >= 0xF8:
			// realtime leaves running status untouched
		case b >= 0x80:
			r.inSysex = b == statusSysex
			r.status = 0
			if b < 0xF0 {
				r.status = b
			}
			r.need = max(MessageLength(b)-1, 0)
		case r.inSysex:
		case r.need > 0:
			r.need--
		case r.status != 0:
			r.out = append(r.out, r.status)
			r.need = MessageLength(r.status) - 2
		}
		r.out = append(r.out, b)
	}
	return r.out
}

// Reset forgets the running status.
func (r *RunningStatus) Reset() {
	r.status = 0
	r.need = 0
	r.inSysex = false
}
