package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		args []string
		want []byte
	}{
		{[]string{"90", "40", "5A"}, []byte{0x90, 0x40, 0x5A}},
		{[]string{"90405a"}, []byte{0x90, 0x40, 0x5A}},
		{[]string{"0xC0,0x5"}, []byte{0xC0, 0x05}},
		{[]string{"F0 43 04", "F7"}, []byte{0xF0, 0x43, 0x04, 0xF7}},
	}
	for _, c := range cases {
		got, err := parseHex(c.args)
		if err != nil {
			t.Errorf("%v: %v", c.args, err)
			continue
		}
		if !bytes.Equal(got, c.want) {
			t.Errorf("%v = % X, want % X", c.args, got, c.want)
		}
	}

	for _, bad := range [][]string{nil, {""}, {"zz"}, {"90", "4G"}} {
		if _, err := parseHex(bad); err == nil {
			t.Errorf("%q accepted", bad)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	line := formatMessage([]byte{0x90, 0x40, 0x5A}, 0.25)
	if !strings.HasPrefix(line, "  0.250000  90 40 5A") {
		t.Errorf("line = %q", line)
	}
	if desc := strings.TrimSpace(line[len("  0.250000  90 40 5A"):]); desc == "" {
		t.Errorf("line %q does not describe the message", line)
	}
}

func TestSelfTest(t *testing.T) {
	opts := []contracts.Option{contracts.WithLogger(logger.NewNopLogger())}
	got, err := selfTest(opts, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(selfTestMessages) {
		t.Fatalf("got %d messages", len(got))
	}
	for i := range got {
		if !bytes.Equal(got[i], selfTestMessages[i]) {
			t.Errorf("message %d = % X, want % X", i, got[i], selfTestMessages[i])
		}
	}
}
