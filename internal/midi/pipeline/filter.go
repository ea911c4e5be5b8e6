package pipeline

import (
	"sync/atomic"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

const (
	ignoreSysex uint32 = 1 << iota
	ignoreTime
	ignoreActiveSense
)

// Filter holds the ignore flags of a connection. The application goroutine writes it
// while the producer reads it for every classified byte, so each change applies from
// the next byte on.
type Filter struct {
	flags atomic.Uint32
}

// Set replaces all three flags at once.
func (f *Filter) Set(sysex, time, sense bool) {
	var v uint32
	if sysex {
		v |= ignoreSysex
	}
	if time {
		v |= ignoreTime
	}
	if sense {
		v |= ignoreActiveSense
	}
	f.flags.Store(v)
}

// Apply copies an IgnoreFilter into f.
func (f *Filter) Apply(ig contracts.IgnoreFilter) {
	f.Set(ig.Sysex, ig.Time, ig.ActiveSense)
}

// Snapshot returns the current flags.
func (f *Filter) Snapshot() contracts.IgnoreFilter {
	v := f.flags.Load()
	return contracts.IgnoreFilter{
		Sysex:       v&ignoreSysex != 0,
		Time:        v&ignoreTime != 0,
		ActiveSense: v&ignoreActiveSense != 0,
	}
}

// Ignores reports whether a message starting with status is dropped by the current flags.
func (f *Filter) Ignores(status byte) bool {
	v := f.flags.Load()
	switch status {
	case 0xF0:
		return v&ignoreSysex != 0
	case 0xF1, 0xF8:
		return v&ignoreTime != 0
	case 0xFE:
		return v&ignoreActiveSense != 0
	}
	return false
}
