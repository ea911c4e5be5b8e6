package connection

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

func TestOutputSend(t *testing.T) {
	opts, _ := testOptions(t)
	d := &fakeOutputDriver{fakeDriver{ports: []string{"Synth"}}}
	out := NewOutput(d, opts)

	if err := out.SendMessage([]byte{0x90, 0x40, 0x5A}); !errors.Is(err, contracts.ErrInvalidUse) || !errors.Is(err, contracts.ErrClosed) {
		t.Fatalf("send while closed = %v", err)
	}
	if err := out.OpenPort(0, "test"); err != nil {
		t.Fatal(err)
	}
	if err := out.SendMessage(nil); !errors.Is(err, contracts.ErrInvalidParameter) {
		t.Fatalf("empty send = %v", err)
	}
	if err := out.SendMessage([]byte{0x90, 0x40, 0x5A}); err != nil {
		t.Fatal(err)
	}
	s := d.last()
	if len(s.sent) != 1 || !bytes.Equal(s.sent[0], []byte{0x90, 0x40, 0x5A}) {
		t.Fatalf("sent = %v", s.sent)
	}

	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if !s.isClosed() {
		t.Fatal("session not closed")
	}
	if err := out.SendMessage([]byte{0xF8}); !errors.Is(err, contracts.ErrClosed) {
		t.Fatalf("send after close = %v", err)
	}
}

func TestOutputVirtualUnsupported(t *testing.T) {
	opts, _ := testOptions(t)
	out := NewOutput(&fakeOutputDriver{}, opts)
	err := out.OpenVirtualPort("Virtual Out")
	if !errors.Is(err, contracts.ErrInvalidUse) || !errors.Is(err, contracts.ErrVirtualPortUnsupported) {
		t.Fatalf("err = %v", err)
	}
	if out.IsPortOpen() {
		t.Fatal("port open after failure")
	}
}

func TestOutputNoPorts(t *testing.T) {
	opts, _ := testOptions(t)
	out := NewOutput(&fakeOutputDriver{}, opts)
	if err := out.OpenPort(0, "test"); !errors.Is(err, contracts.ErrInvalidDevice) {
		t.Fatalf("err = %v", err)
	}
}
