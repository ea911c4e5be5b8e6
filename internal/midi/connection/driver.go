// Package connection implements the lifecycle of MIDI inputs and outputs on top of
// a backend driver. The driver only knows how to enumerate ports and start or stop
// an OS session; state checks, error reporting and the input pipeline live here.
package connection

import (
	"fmt"

	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Driver enumerates the ports of one backend.
type Driver interface {
	API() contracts.API
	PortCount() (int, error)
	PortName(port int) (string, error)
}

// InputDriver opens input sessions. Every delivery unit the OS hands over is fed
// to sink from a single producer goroutine or OS thread at a time.
type InputDriver interface {
	Driver
	OpenPort(port int, name string, sink pipeline.Sink) (Session, error)
	OpenVirtualPort(name string, sink pipeline.Sink) (Session, error)
}

// OutputDriver opens output sessions.
type OutputDriver interface {
	Driver
	OpenPort(port int, name string) (OutputSession, error)
	OpenVirtualPort(name string) (OutputSession, error)
}

// Session is an open OS connection. Close stops the producer, waits for it to
// return and releases the OS handles. After Close returns the sink is not fed again.
type Session interface {
	Close() error
}

// OutputSession is an open output connection.
type OutputSession interface {
	Session
	Send(message []byte) error
}

// CheckPort validates a port index against the number of ports.
func CheckPort(port, count int) error {
	if port < 0 || port >= count {
		return contracts.NewError(contracts.InvalidParameter,
			fmt.Sprintf("port index %d is out of range [0, %d)", port, count), nil)
	}
	return nil
}

// ErrVirtualUnsupported is returned by drivers that cannot create virtual ports.
func ErrVirtualUnsupported(api contracts.API) error {
	return contracts.NewError(contracts.InvalidUse,
		fmt.Sprintf("%s does not support virtual ports", api.DisplayName()), contracts.ErrVirtualPortUnsupported)
}
