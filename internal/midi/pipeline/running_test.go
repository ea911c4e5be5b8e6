package pipeline

import (
	"bytes"
	"testing"
)

func TestRunningStatusExpand(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"plain", []byte{0x90, 0x40, 0x5A}, []byte{0x90, 0x40, 0x5A}},
		{"note-run", []byte{0x90, 0x40, 0x5A, 0x43, 0x5A, 0x40, 0x00},
			[]byte{0x90, 0x40, 0x5A, 0x90, 0x43, 0x5A, 0x90, 0x40, 0x00}},
		{"program-run", []byte{0xC0, 0x01, 0x02}, []byte{0xC0, 0x01, 0xC0, 0x02}},
		{"realtime-keeps-status", []byte{0xB0, 0x07, 0x64, 0xF8, 0x07, 0x00},
			[]byte{0xB0, 0x07, 0x64, 0xF8, 0xB0, 0x07, 0x00}},
		{"system-common-clears", []byte{0x90, 0x40, 0x5A, 0xF6, 0x40}, []byte{0x90, 0x40, 0x5A, 0xF6, 0x40}},
		{"sysex-untouched", []byte{0x90, 0x40, 0x5A, 0xF0, 0x01, 0x02, 0xF7, 0x03},
			[]byte{0x90, 0x40, 0x5A, 0xF0, 0x01, 0x02, 0xF7, 0x03}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RunningStatus
			if got := r.Expand(tt.in); !bytes.Equal(got, tt.want) {
				t.Fatalf("Expand(% X) = % X, want % X", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunningStatusAcrossReads(t *testing.T) {
	var r RunningStatus
	var f Filter
	var got [][]byte
	a := NewAssembler(&f, func(msg []byte, _ float64) { got = append(got, msg) })

	for _, chunk := range [][]byte{{0x90, 0x40}, {0x5A, 0x43}, {0x00}, {0x44, 0x10}} {
		a.Feed(r.Expand(chunk), 0)
	}
	want := [][]byte{{0x90, 0x40, 0x5A}, {0x90, 0x43, 0x00}, {0x90, 0x44, 0x10}}
	if len(got) != len(want) {
		t.Fatalf("got %d messages: % X", len(got), got)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("message %d = % X, want % X", i, got[i], want[i])
		}
	}
}

func TestRunningStatusReset(t *testing.T) {
	var r RunningStatus
	r.Expand([]byte{0x90, 0x40, 0x5A})
	r.Reset()
	if got := r.Expand([]byte{0x40}); !bytes.Equal(got, []byte{0x40}) {
		t.Fatalf("status survived reset: % X", got)
	}
}
