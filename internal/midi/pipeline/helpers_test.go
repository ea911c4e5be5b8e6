package pipeline

import (
	"sync"
	"testing"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type reported struct {
	kind contracts.ErrorKind
	msg  string
}

// callbackLog records error callback invocations.
type callbackLog struct {
	mu    sync.Mutex
	calls []reported
}

func (c *callbackLog) record(kind contracts.ErrorKind, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, reported{kind, msg})
}

func (c *callbackLog) all() []reported {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]reported(nil), c.calls...)
}

func observedReporter(t *testing.T) (*Reporter, *observer.ObservedLogs, *callbackLog) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))
	r := NewReporter(log, log.Field().String("connection", "test"))
	cbs := &callbackLog{}
	r.SetCallback(cbs.record)
	return r, logs, cbs
}
