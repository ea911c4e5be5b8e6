package contracts

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a MIDI connection can report.
type ErrorKind int

const (
	// Warning is recoverable; the triggering operation becomes a no-op.
	Warning ErrorKind = iota
	// DebugWarning is a diagnostic only emitted at debug level.
	DebugWarning
	NoDevicesFound
	InvalidDevice
	InvalidStream
	MemoryError
	InvalidParameter
	InvalidUse
	DriverError
	SystemError
	ThreadError
)

var kindNames = map[ErrorKind]string{
	Warning:          "warning",
	DebugWarning:     "debug warning",
	NoDevicesFound:   "no devices found",
	InvalidDevice:    "invalid device",
	InvalidStream:    "invalid stream",
	MemoryError:      "memory error",
	InvalidParameter: "invalid parameter",
	InvalidUse:       "invalid use",
	DriverError:      "driver error",
	SystemError:      "system error",
	ThreadError:      "thread error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// IsWarning reports whether the kind is non-fatal.
func (k ErrorKind) IsWarning() bool {
	return k == Warning || k == DebugWarning
}

// Sentinel errors, one per fatal kind. An *Error matches the sentinel of its kind with errors.Is.
var (
	ErrNoDevicesFound   = errors.New("no MIDI devices found")
	ErrInvalidDevice    = errors.New("invalid MIDI device")
	ErrInvalidStream    = errors.New("invalid MIDI stream")
	ErrMemory           = errors.New("MIDI memory error")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidUse       = errors.New("invalid use")
	ErrDriver           = errors.New("MIDI driver error")
	ErrSystem           = errors.New("MIDI system error")
	ErrThread           = errors.New("MIDI thread error")
)

// Errors that are not tied to a single kind.
var (
	ErrClosed                 = errors.New("MIDI port is closed")
	ErrAPINotCompiled         = errors.New("MIDI API is not compiled into this build")
	ErrVirtualPortUnsupported = errors.New("virtual ports are not supported by this API")
)

var kindSentinels = map[ErrorKind]error{
	NoDevicesFound:   ErrNoDevicesFound,
	InvalidDevice:    ErrInvalidDevice,
	InvalidStream:    ErrInvalidStream,
	MemoryError:      ErrMemory,
	InvalidParameter: ErrInvalidParameter,
	InvalidUse:       ErrInvalidUse,
	DriverError:      ErrDriver,
	SystemError:      ErrSystem,
	ThreadError:      ErrThread,
}

// Error is the error type returned at the application boundary.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error // underlying cause, may be nil
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind, so callers can write errors.Is(err, ErrInvalidUse).
func (e *Error) Is(target error) bool {
	if s, ok := kindSentinels[e.Kind]; ok && s == target {
		return true
	}
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
	}
	return false
}

// KindOf extracts the kind of err. Errors that are not *Error are treated as driver errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return DriverError
}

// ErrorCallback receives every warning and error a connection reports.
// It may run on a backend goroutine and must be safe for concurrent use.
type ErrorCallback func(kind ErrorKind, msg string)
