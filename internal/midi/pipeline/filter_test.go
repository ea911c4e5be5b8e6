package pipeline

import (
	"testing"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

func TestFilterIgnores(t *testing.T) {
	tests := []struct {
		name               string
		sysex, time, sense bool
		ignored            []byte
		kept               []byte
	}{
		{"none", false, false, false, nil, []byte{0xF0, 0xF1, 0xF8, 0xFE, 0x90, 0xF7}},
		{"sysex", true, false, false, []byte{0xF0}, []byte{0xF1, 0xF8, 0xFE, 0xF7}},
		{"time", false, true, false, []byte{0xF1, 0xF8}, []byte{0xF0, 0xFE, 0xFA, 0xFC}},
		{"sense", false, false, true, []byte{0xFE}, []byte{0xF0, 0xF8, 0xFF}},
		{"all", true, true, true, []byte{0xF0, 0xF1, 0xF8, 0xFE}, []byte{0x80, 0xB0, 0xF2, 0xFA}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Filter
			f.Set(tt.sysex, tt.time, tt.sense)
			for _, s := range tt.ignored {
				if !f.Ignores(s) {
					t.Errorf("0x%02X not ignored", s)
				}
			}
			for _, s := range tt.kept {
				if f.Ignores(s) {
					t.Errorf("0x%02X ignored", s)
				}
			}
		})
	}
}

func TestFilterSnapshot(t *testing.T) {
	var f Filter
	want := contracts.IgnoreFilter{Sysex: true, ActiveSense: true}
	f.Apply(want)
	if got := f.Snapshot(); got != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
	f.Set(false, false, false)
	if got := f.Snapshot(); got != (contracts.IgnoreFilter{}) {
		t.Fatalf("snapshot after clear = %+v", got)
	}
}
