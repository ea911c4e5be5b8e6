package midiserial

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

type fakeStream struct {
	r *io.PipeReader

	mu      sync.Mutex
	written bytes.Buffer
	chunk   int // max bytes per Write, 0 for all
}

func (s *fakeStream) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *fakeStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chunk > 0 && len(p) > s.chunk {
		p = p[:s.chunk]
	}
	return s.written.Write(p)
}

func (s *fakeStream) Close() error { return s.r.Close() }

func (s *fakeStream) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written.Bytes()...)
}

// fakePorts replaces the serial port list and returns the writer feeding the
// opened stream.
func fakePorts(t *testing.T, ports ...string) (*io.PipeWriter, *fakeStream, *contracts.SerialConfig) {
	t.Helper()
	pr, pw := io.Pipe()
	stream := &fakeStream{r: pr}
	var opened contracts.SerialConfig

	oldList, oldOpen := listPorts, openStream
	listPorts = func() ([]string, error) { return ports, nil }
	openStream = func(name string, config contracts.SerialConfig) (io.ReadWriteCloser, error) {
		opened = config
		return stream, nil
	}
	t.Cleanup(func() {
		listPorts, openStream = oldList, oldOpen
		_ = pw.Close()
	})
	return pw, stream, &opened
}

func testOptions() *contracts.ClientOptions {
	return &contracts.ClientOptions{Logger: logger.NewNopLogger(), QueueSize: 16}
}

func waitMessage(t *testing.T, in *connection.Input) []byte {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if msg, _, _ := in.Message(); len(msg) > 0 {
			return msg
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a message")
	return nil
}

func TestSerialInputRunningStatus(t *testing.T) {
	pw, _, opened := fakePorts(t, "/dev/ttyAMA0")
	drv, _ := NewInputDriver(testOptions())
	in := connection.NewInput(drv, testOptions())
	if err := in.OpenPort(0, "din"); err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	if opened.BaudRate != DefaultBaudRate {
		t.Errorf("baud = %d, want %d", opened.BaudRate, DefaultBaudRate)
	}

	if _, err := pw.Write([]byte{0x90, 0x40, 0x5A, 0x40}); err != nil {
		t.Fatal(err)
	}
	if _, err := pw.Write([]byte{0x00}); err != nil {
		t.Fatal(err)
	}
	if msg := waitMessage(t, in); !bytes.Equal(msg, []byte{0x90, 0x40, 0x5A}) {
		t.Fatalf("first = % X", msg)
	}
	if msg := waitMessage(t, in); !bytes.Equal(msg, []byte{0x90, 0x40, 0x00}) {
		t.Fatalf("second = % X", msg)
	}
}

func TestSerialInputCloseUnblocksReader(t *testing.T) {
	fakePorts(t, "/dev/ttyUSB0")
	drv, _ := NewInputDriver(testOptions())
	in := connection.NewInput(drv, testOptions())
	if err := in.OpenPort(0, "usb"); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- in.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return while the reader was blocked")
	}
}

func TestSerialReadError(t *testing.T) {
	pw, _, _ := fakePorts(t, "/dev/ttyUSB0")
	opts := testOptions()
	reports := make(chan contracts.ErrorKind, 1)
	opts.ErrorCallback = func(kind contracts.ErrorKind, msg string) { reports <- kind }

	drv, _ := NewInputDriver(opts)
	in := connection.NewInput(drv, opts)
	if err := in.OpenPort(0, "usb"); err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	_ = pw.CloseWithError(errors.New("device unplugged"))
	select {
	case kind := <-reports:
		if kind != contracts.DriverError {
			t.Fatalf("kind = %v", kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("read error not reported")
	}
}

func TestSerialOutputShortWrites(t *testing.T) {
	_, stream, opened := fakePorts(t, "/dev/ttyUSB0")
	stream.chunk = 2
	opts := testOptions()
	opts.SerialConfig = &contracts.SerialConfig{BaudRate: 115200}

	drv, _ := NewOutputDriver(opts)
	out := connection.NewOutput(drv, opts)
	if err := out.OpenPort(0, "usb"); err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	sysex := []byte{0xF0, 0x43, 0x04, 0x03, 0x02, 0xF7}
	if err := out.SendMessage(sysex); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stream.bytes(), sysex) {
		t.Fatalf("written = % X", stream.bytes())
	}
	if opened.BaudRate != 115200 {
		t.Fatalf("baud = %d", opened.BaudRate)
	}
}

func TestSerialPorts(t *testing.T) {
	fakePorts(t, "/dev/ttyS0", "/dev/ttyUSB0")
	drv, _ := NewInputDriver(testOptions())
	if n, _ := drv.PortCount(); n != 2 {
		t.Fatalf("count = %d", n)
	}
	if name, _ := drv.PortName(1); name != "/dev/ttyUSB0" {
		t.Fatalf("name = %q", name)
	}
	if _, err := drv.PortName(2); !errors.Is(err, contracts.ErrInvalidParameter) {
		t.Fatalf("bad index = %v", err)
	}
	if _, err := drv.OpenVirtualPort("v", nil); !errors.Is(err, contracts.ErrVirtualPortUnsupported) {
		t.Fatalf("virtual = %v", err)
	}
}
