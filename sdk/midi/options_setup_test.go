package midi

import (
	"errors"
	"testing"
	"time"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

func TestApplyDefaultOptions(t *testing.T) {
	opts, err := applyDefaultOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Logger == nil {
		t.Error("no default logger")
	}
	if opts.QueueSize != DefaultQueueSize {
		t.Errorf("queue size = %d, want %d", opts.QueueSize, DefaultQueueSize)
	}
	if opts.ClientName != DefaultClientName || opts.CoreMIDIConfig.ClientName != DefaultClientName {
		t.Errorf("client names = %q, %q", opts.ClientName, opts.CoreMIDIConfig.ClientName)
	}
	if want := (contracts.IgnoreFilter{Sysex: true, Time: true, ActiveSense: true}); *opts.Ignore != want {
		t.Errorf("ignore = %+v, want %+v", *opts.Ignore, want)
	}
	if opts.SerialConfig.BaudRate != 31250 || opts.SerialConfig.ReadTimeout != DefaultSerialReadTimeout {
		t.Errorf("serial config = %+v", *opts.SerialConfig)
	}
	if opts.API != contracts.APIUnspecified {
		t.Errorf("api = %v", opts.API)
	}
}

func TestApplyDefaultOptionsKeepsExplicitValues(t *testing.T) {
	l := logger.NewNopLogger()
	opts, err := applyDefaultOptions(
		contracts.WithLogger(l),
		contracts.WithQueueSize(0),
		contracts.WithClientName("studio"),
		contracts.WithIgnoreTypes(false, true, false),
		contracts.WithSerialConfig(contracts.SerialConfig{BaudRate: 115200, ReadTimeout: time.Second}),
		contracts.WithAPI(contracts.APILoopback),
	)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Logger != l {
		t.Error("explicit logger was replaced")
	}
	if opts.QueueSize != 0 {
		t.Errorf("explicit zero queue size became %d", opts.QueueSize)
	}
	if opts.ClientName != "studio" || opts.CoreMIDIConfig.ClientName != "studio" {
		t.Errorf("client names = %q, %q", opts.ClientName, opts.CoreMIDIConfig.ClientName)
	}
	if want := (contracts.IgnoreFilter{Time: true}); *opts.Ignore != want {
		t.Errorf("ignore = %+v", *opts.Ignore)
	}
	if opts.SerialConfig.BaudRate != 115200 || opts.SerialConfig.ReadTimeout != time.Second {
		t.Errorf("serial config = %+v", *opts.SerialConfig)
	}
	if opts.API != contracts.APILoopback {
		t.Errorf("api = %v", opts.API)
	}
}

func TestApplyDefaultOptionsNegativeQueue(t *testing.T) {
	_, err := applyDefaultOptions(contracts.WithQueueSize(-1), contracts.WithLogger(logger.NewNopLogger()))
	if !errors.Is(err, contracts.ErrInvalidParameter) {
		t.Fatalf("err = %v, want invalid parameter", err)
	}
}
