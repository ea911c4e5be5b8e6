package contracts

import "time"

// IgnoreFilter selects the message classes dropped while assembling input.
type IgnoreFilter struct {
	Sysex       bool // System exclusive (0xF0 ... 0xF7).
	Time        bool // Timing clock (0xF8) and MTC quarter frame (0xF1).
	ActiveSense bool // Active sensing (0xFE).
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the CoreMIDI client.
}

// SerialConfig configures the serial MIDI backend.
type SerialConfig struct {
	BaudRate    int           // 31250 for DIN MIDI, higher for USB-serial bridges.
	ReadTimeout time.Duration // Upper bound on how long Close waits for the reader.
}

// ClientOptions defines the configuration of MIDI inputs and outputs.
type ClientOptions struct {
	Logger         Logger          // Logger for events and errors.
	LogLevel       LogLevel        // Level of logging to use.
	LogFilePath    string          // File path when file logging is enabled.
	API            API             // Backend to use; APIUnspecified picks one.
	ClientName     string          // Name announced to the backend.
	QueueSize      int             // Input queue capacity; 0 disables the queue.
	queueSizeSet   bool            // Distinguishes an explicit 0 from the default.
	Ignore         *IgnoreFilter   // Initial input filter.
	ErrorCallback  ErrorCallback   // Receives warnings and errors.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
	SerialConfig   *SerialConfig   // Configuration specific to serial MIDI.
}

// QueueSizeSet reports whether WithQueueSize was applied.
func (o *ClientOptions) QueueSizeSet() bool {
	return o.queueSizeSet
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile directs log output to a file.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithAPI selects the backend.
func WithAPI(api API) Option {
	return func(opts *ClientOptions) {
		opts.API = api
	}
}

// WithClientName sets the client name announced to the backend.
func WithClientName(name string) Option {
	return func(opts *ClientOptions) {
		opts.ClientName = name
	}
}

// WithQueueSize sets the input queue capacity. 0 disables queuing; only callbacks receive data.
func WithQueueSize(size int) Option {
	return func(opts *ClientOptions) {
		opts.QueueSize = size
		opts.queueSizeSet = true
	}
}

// WithIgnoreTypes sets the initial input filter.
func WithIgnoreTypes(sysex, time, sense bool) Option {
	return func(opts *ClientOptions) {
		opts.Ignore = &IgnoreFilter{Sysex: sysex, Time: time, ActiveSense: sense}
	}
}

// WithErrorCallback registers a callback for warnings and errors.
func WithErrorCallback(cb ErrorCallback) Option {
	return func(opts *ClientOptions) {
		opts.ErrorCallback = cb
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithSerialConfig sets the serial MIDI configuration.
func WithSerialConfig(config SerialConfig) Option {
	return func(opts *ClientOptions) {
		opts.SerialConfig = &config
	}
}
