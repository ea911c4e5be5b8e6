package connection

import (
	"errors"
	"sync"
	"testing"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errUnplugged = errors.New("device unplugged")

type fakeDriver struct {
	ports    []string
	openErr  error
	closeErr error

	mu       sync.Mutex
	sessions []*fakeSession
}

func (d *fakeDriver) API() contracts.API { return contracts.APILoopback }

func (d *fakeDriver) PortCount() (int, error) { return len(d.ports), nil }

func (d *fakeDriver) PortName(port int) (string, error) {
	if err := CheckPort(port, len(d.ports)); err != nil {
		return "", err
	}
	return d.ports[port], nil
}

func (d *fakeDriver) start(sink pipeline.Sink) (*fakeSession, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	s := &fakeSession{sink: sink, closeErr: d.closeErr}
	d.mu.Lock()
	d.sessions = append(d.sessions, s)
	d.mu.Unlock()
	return s, nil
}

func (d *fakeDriver) last() *fakeSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[len(d.sessions)-1]
}

type fakeInputDriver struct{ fakeDriver }

func (d *fakeInputDriver) OpenPort(port int, name string, sink pipeline.Sink) (Session, error) {
	return d.start(sink)
}

func (d *fakeInputDriver) OpenVirtualPort(name string, sink pipeline.Sink) (Session, error) {
	return d.start(sink)
}

type fakeOutputDriver struct{ fakeDriver }

func (d *fakeOutputDriver) OpenPort(port int, name string) (OutputSession, error) {
	return d.start(nil)
}

func (d *fakeOutputDriver) OpenVirtualPort(name string) (OutputSession, error) {
	return nil, ErrVirtualUnsupported(d.API())
}

type fakeSession struct {
	sink     pipeline.Sink
	closeErr error

	mu     sync.Mutex
	closed bool
	sent   [][]byte
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeErr
}

func (s *fakeSession) Send(message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, append([]byte(nil), message...))
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func testOptions(t *testing.T) (*contracts.ClientOptions, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return &contracts.ClientOptions{
		Logger:    logger.NewFromZap(zap.New(core)),
		QueueSize: 8,
	}, logs
}
