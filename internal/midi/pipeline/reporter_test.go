package pipeline

import (
	"errors"
	"testing"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/zap/zapcore"
)

func TestReporterWarning(t *testing.T) {
	r, logs, cbs := observedReporter(t)

	if err := r.Report(contracts.Warning, "port name unavailable"); err != nil {
		t.Fatalf("warning returned %v", err)
	}
	entries := logs.FilterMessage("port name unavailable").All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("warning entries = %v", entries)
	}
	if entries[0].ContextMap()["connection"] != "test" {
		t.Errorf("connection field missing: %v", entries[0].ContextMap())
	}
	calls := cbs.all()
	if len(calls) != 1 || calls[0].kind != contracts.Warning {
		t.Fatalf("callback calls = %v", calls)
	}
}

func TestReporterDebugWarning(t *testing.T) {
	r, logs, cbs := observedReporter(t)

	if err := r.Report(contracts.DebugWarning, "quirk"); err != nil {
		t.Fatalf("debug warning returned %v", err)
	}
	if logs.FilterLevelExact(zapcore.DebugLevel).Len() != 1 {
		t.Fatal("debug warning not logged at debug level")
	}
	if len(cbs.all()) != 0 {
		t.Fatal("debug warning reached the error callback")
	}
}

func TestReporterError(t *testing.T) {
	r, logs, cbs := observedReporter(t)
	cause := errors.New("device unplugged")

	err := r.Wrap(contracts.DriverError, "error reading input", cause)
	if err == nil {
		t.Fatal("driver error returned nil")
	}
	if !errors.Is(err, contracts.ErrDriver) {
		t.Errorf("%v does not match ErrDriver", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("%v does not wrap its cause", err)
	}
	if contracts.KindOf(err) != contracts.DriverError {
		t.Errorf("kind = %v", contracts.KindOf(err))
	}

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(entries) != 1 {
		t.Fatalf("error entries = %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["kind"] != contracts.DriverError.String() || ctx["error"] != "device unplugged" {
		t.Errorf("context = %v", ctx)
	}

	calls := cbs.all()
	if len(calls) != 1 || calls[0].kind != contracts.DriverError || calls[0].msg != err.Error() {
		t.Fatalf("callback calls = %v", calls)
	}
}

func TestReporterWithoutCallback(t *testing.T) {
	r, _, cbs := observedReporter(t)
	r.SetCallback(nil)
	_ = r.Report(contracts.Warning, "nobody listens")
	_ = r.Report(contracts.InvalidUse, "nobody listens")
	if len(cbs.all()) != 0 {
		t.Fatal("callback called after removal")
	}
}

func TestReporterFieldsNotShared(t *testing.T) {
	r, logs, _ := observedReporter(t)
	r.Warn("first", r.Logger().Field().Int("a", 1))
	r.Warn("second", r.Logger().Field().Int("b", 2))
	ctx := logs.FilterMessage("second").All()[0].ContextMap()
	if _, ok := ctx["a"]; ok {
		t.Fatalf("field leaked between entries: %v", ctx)
	}
}
