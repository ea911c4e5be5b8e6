package connection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/leandrodaf/rtmidi/internal/midi/pipeline"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// conn holds what inputs and outputs share: port discovery, state and reporting.
type conn struct {
	id       string
	kind     string // "input" or "output"
	driver   Driver
	logger   contracts.Logger
	reporter *pipeline.Reporter

	mu    sync.Mutex // serializes open and close
	state stateVar
}

func newConn(kind string, driver Driver, options *contracts.ClientOptions) conn {
	id := uuid.NewString()
	log := options.Logger
	reporter := pipeline.NewReporter(log,
		log.Field().String("connection", id),
		log.Field().String("api", driver.API().Name()),
		log.Field().String("direction", kind),
	)
	reporter.SetCallback(options.ErrorCallback)
	return conn{
		id:       id,
		kind:     kind,
		driver:   driver,
		logger:   log,
		reporter: reporter,
	}
}

// ID returns the connection id used in log entries.
func (c *conn) ID() string {
	return c.id
}

// API returns the backend of the connection.
func (c *conn) API() contracts.API {
	return c.driver.API()
}

// State returns the lifecycle state.
func (c *conn) State() State {
	return c.state.load()
}

// IsPortOpen reports whether a connection is open.
func (c *conn) IsPortOpen() bool {
	return c.state.load() == StateOpen
}

// SetErrorCallback installs cb for warnings and errors. nil removes it.
func (c *conn) SetErrorCallback(cb contracts.ErrorCallback) {
	c.reporter.SetCallback(cb)
}

// PortCount returns the number of ports of the backend.
func (c *conn) PortCount() (int, error) {
	n, err := c.driver.PortCount()
	if err != nil {
		return 0, c.fail("error counting "+c.kind+" ports", err)
	}
	return n, nil
}

// PortName returns the name of the port at index port.
func (c *conn) PortName(port int) (string, error) {
	name, err := c.driver.PortName(port)
	if err != nil {
		return "", c.fail(fmt.Sprintf("error getting the name of %s port %d", c.kind, port), err)
	}
	return name, nil
}

// checkOpen runs the shared preconditions of OpenPort. Must hold mu.
// A nil error with ok false means the call is a no-op.
func (c *conn) checkOpen(port int) (ok bool, err error) {
	if c.state.load() != StateClosed {
		return false, c.reporter.Report(contracts.Warning, "a valid connection already exists")
	}
	count, err := c.driver.PortCount()
	if err != nil {
		return false, c.fail("error counting "+c.kind+" ports", err)
	}
	if count == 0 {
		return false, c.reporter.Report(contracts.InvalidDevice, "no MIDI "+c.kind+" ports found")
	}
	if err := CheckPort(port, count); err != nil {
		return false, c.fail("invalid "+c.kind+" port", err)
	}
	return true, nil
}

// checkOpenVirtual runs the preconditions of OpenVirtualPort. Must hold mu.
func (c *conn) checkOpenVirtual() (ok bool, err error) {
	if c.state.load() != StateClosed {
		return false, c.reporter.Report(contracts.Warning, "a valid connection already exists")
	}
	return true, nil
}

// fail reports err with the kind it carries, DriverError for plain errors.
func (c *conn) fail(msg string, err error) error {
	var e *contracts.Error
	if errors.As(err, &e) && !e.Kind.IsWarning() {
		return c.reporter.Wrap(e.Kind, msg+": "+e.Msg, e.Err)
	}
	return c.reporter.Wrap(contracts.DriverError, msg, err)
}

func (c *conn) opened(port int, name string, virtual bool) {
	c.state.store(StateOpen)
	c.reporter.Info("MIDI "+c.kind+" port opened",
		c.logger.Field().Int("port", port),
		c.logger.Field().String("name", name),
		c.logger.Field().Bool("virtual", virtual),
	)
}

// portLabel resolves the name logged for an opened port.
func (c *conn) portLabel(port int) string {
	name, err := c.driver.PortName(port)
	if err != nil {
		return fmt.Sprintf("port %d", port)
	}
	return name
}
