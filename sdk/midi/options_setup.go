package midi

import (
	"time"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/internal/midi/midiserial"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Defaults applied by applyDefaultOptions.
const (
	DefaultQueueSize         = 100
	DefaultClientName        = "GO MIDI Client"
	DefaultSerialReadTimeout = 100 * time.Millisecond
)

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.QueueSize < 0 {
		return contracts.ClientOptions{}, contracts.NewError(contracts.InvalidParameter, "queue size must not be negative", nil)
	}
	if !options.QueueSizeSet() {
		options.QueueSize = DefaultQueueSize
	}
	if options.ClientName == "" {
		options.ClientName = DefaultClientName
	}
	// RtMidi convention: sysex, timing and active sensing are ignored until asked for.
	if options.Ignore == nil {
		options.Ignore = &contracts.IgnoreFilter{Sysex: true, Time: true, ActiveSense: true}
	}

	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: options.ClientName}
	}
	if options.SerialConfig == nil {
		options.SerialConfig = &contracts.SerialConfig{}
	}
	if options.SerialConfig.BaudRate == 0 {
		options.SerialConfig.BaudRate = midiserial.DefaultBaudRate
	}
	if options.SerialConfig.ReadTimeout == 0 {
		options.SerialConfig.ReadTimeout = DefaultSerialReadTimeout
	}

	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	return *options, nil
}
