//go:build linux

package midilinux

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"golang.org/x/sys/unix"
)

// fakeSound lays out a /dev/snd and /proc/asound tree in temporary directories.
func fakeSound(t *testing.T, nodes ...string) {
	t.Helper()
	dev, proc := t.TempDir(), t.TempDir()
	for _, n := range nodes {
		if err := os.WriteFile(filepath.Join(dev, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(proc, "card1"), 0o755); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(proc, "card1", "midi0"), []byte("UM-ONE\n\nOutput 0\n"), 0o644)
	_ = os.MkdirAll(filepath.Join(proc, "card2"), 0o755)
	_ = os.WriteFile(filepath.Join(proc, "card2", "id"), []byte("Launchkey\n"), 0o644)

	oldDev, oldProc := devDir, procDir
	devDir, procDir = dev, proc
	t.Cleanup(func() { devDir, procDir = oldDev, oldProc })
}

// pipeDevice makes openDevice return the read end of a pipe. It returns the write
// end and a function closing it once; the read end is closed by the session.
func pipeDevice(t *testing.T) (int, func()) {
	t.Helper()
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		t.Fatal(err)
	}
	var once sync.Once
	closeWriter := func() { once.Do(func() { _ = unix.Close(p[1]) }) }

	old := openDevice
	openDevice = func(string, int, uint32) (int, error) { return p[0], nil }
	t.Cleanup(func() {
		openDevice = old
		closeWriter()
	})
	return p[1], closeWriter
}

func testOptions() *contracts.ClientOptions {
	return &contracts.ClientOptions{Logger: logger.NewNopLogger(), QueueSize: 16}
}

func TestListDevices(t *testing.T) {
	fakeSound(t, "midiC2D0", "midiC1D1", "midiC1D0", "controlC1", "pcmC0D0p")
	devices, err := listDevices()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"UM-ONE (hw:1,0)", "hw:1,1", "Launchkey (hw:2,0)"}
	if len(devices) != len(want) {
		t.Fatalf("devices = %+v", devices)
	}
	for i, w := range want {
		if devices[i].name != w {
			t.Errorf("device %d = %q, want %q", i, devices[i].name, w)
		}
	}

	drv, _ := NewInputDriver(testOptions())
	if _, err := drv.PortName(3); !errors.Is(err, contracts.ErrInvalidParameter) {
		t.Fatalf("bad index = %v", err)
	}
}

func TestRawmidiInput(t *testing.T) {
	fakeSound(t, "midiC1D0")
	w, _ := pipeDevice(t)

	drv, _ := NewInputDriver(testOptions())
	in := connection.NewInput(drv, testOptions())
	in.IgnoreTypes(false, false, false)
	if err := in.OpenPort(0, "rawmidi"); err != nil {
		t.Fatal(err)
	}

	// Running status on the wire, split mid-message.
	_, _ = unix.Write(w, []byte{0x90, 0x3C})
	_, _ = unix.Write(w, []byte{0x40, 0x3E, 0x40})

	var got [][]byte
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		if msg, _, _ := in.Message(); len(msg) > 0 {
			got = append(got, msg)
			continue
		}
		time.Sleep(time.Millisecond)
	}
	if len(got) != 2 || !bytes.Equal(got[0], []byte{0x90, 0x3C, 0x40}) || !bytes.Equal(got[1], []byte{0x90, 0x3E, 0x40}) {
		t.Fatalf("got % X", got)
	}

	done := make(chan error, 1)
	go func() { done <- in.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not stop the poll loop")
	}
}

func TestRawmidiDisconnect(t *testing.T) {
	fakeSound(t, "midiC1D0")
	_, hangUp := pipeDevice(t)
	opts := testOptions()
	kinds := make(chan contracts.ErrorKind, 1)
	opts.ErrorCallback = func(kind contracts.ErrorKind, _ string) { kinds <- kind }

	drv, _ := NewInputDriver(opts)
	in := connection.NewInput(drv, opts)
	if err := in.OpenPort(0, "rawmidi"); err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	hangUp()
	select {
	case kind := <-kinds:
		if kind != contracts.DriverError {
			t.Fatalf("kind = %v", kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("hang-up not reported")
	}
}

func TestRawmidiVirtualUnsupported(t *testing.T) {
	drv, _ := NewOutputDriver(testOptions())
	if _, err := drv.OpenVirtualPort("v"); !errors.Is(err, contracts.ErrVirtualPortUnsupported) {
		t.Fatalf("err = %v", err)
	}
}
