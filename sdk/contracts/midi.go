package contracts

// Message is a complete MIDI message as delivered to the application.
type Message struct {
	Bytes     []byte  // Raw MIDI bytes, status byte first. Sysex messages end with 0xF7.
	Timestamp float64 // Seconds elapsed since the previous delivered message.
}

// Empty reports whether m is the "no message" result of a queue read.
func (m Message) Empty() bool {
	return len(m.Bytes) == 0
}

// InputCallback is invoked for every incoming message when registered with MIDIIn.SetCallback.
// It runs on the backend's producer goroutine or OS thread: it must return promptly and must
// not open, close or reconfigure the port it was registered on.
type InputCallback func(in MIDIIn, message []byte, deltaTime float64)

// InputStats counts what happened to the messages of an input connection.
type InputStats struct {
	Delivered       uint64 // Handed to the callback or accepted by the queue.
	Dropped         uint64 // Lost because the queue was full or disabled.
	Filtered        uint64 // Suppressed by IgnoreTypes.
	Malformed       uint64 // Stray data bytes and messages cut short by a new status.
	Discontinuities uint64 // Backend clock went backwards; delta clamped to zero.
	Queued          int    // Messages currently waiting in the queue.
}

// MIDI is the port discovery and lifecycle surface shared by inputs and outputs.
type MIDI interface {
	API() API                             // Backend serving this connection.
	OpenPort(port int, name string) error // Connects to an existing port by index.
	OpenVirtualPort(name string) error    // Creates a port other software can connect to.
	Close() error                         // Closes the connection; safe to call when closed.
	IsPortOpen() bool                     // Reports whether a connection is open.
	PortCount() (int, error)              // Number of ports of the backend.
	PortName(port int) (string, error)    // Name of the port at the given index.
	SetErrorCallback(cb ErrorCallback)    // Receives warnings and errors; nil removes it.
}

// MIDIIn receives MIDI messages either through a polled queue or a callback.
type MIDIIn interface {
	MIDI
	// IgnoreTypes sets which message classes are dropped while assembling input.
	IgnoreTypes(sysex, time, sense bool)
	// SetCallback switches delivery to cb. Fails with InvalidUse if one is already set.
	SetCallback(cb InputCallback) error
	// CancelCallback returns delivery to the queue. Fails with InvalidUse if none is set.
	CancelCallback() error
	// Message pops the next queued message. An empty slice means nothing was waiting.
	Message() ([]byte, float64, error)
	// Stats returns delivery counters for the current connection.
	Stats() InputStats
}

// MIDIOut sends MIDI messages.
type MIDIOut interface {
	MIDI
	SendMessage(message []byte) error
}
