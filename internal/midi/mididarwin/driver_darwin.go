//go:build darwin
// +build darwin

package mididarwin

import (
	"sync"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Available reports whether the backend is compiled in.
const Available = true

var (
	clientOnce sync.Once
	client     coremidi.Client
	clientErr  error
)

// sharedClient creates the process CoreMIDI client on first use. CoreMIDI
// clients live until the process exits.
func sharedClient(options *contracts.ClientOptions) (coremidi.Client, error) {
	clientOnce.Do(func() {
		name := "GO MIDI Client"
		if options.CoreMIDIConfig != nil && options.CoreMIDIConfig.ClientName != "" {
			name = options.CoreMIDIConfig.ClientName
		}
		client, clientErr = coremidi.NewClient(name)
		if clientErr == nil {
			options.Logger.Info("MIDI client successfully created", options.Logger.Field().String("client", name))
		}
	})
	return client, clientErr
}

type driver struct {
	client coremidi.Client
	logger contracts.Logger
}

func newDriver(options *contracts.ClientOptions) (driver, error) {
	c, err := sharedClient(options)
	if err != nil {
		return driver{}, contracts.NewError(contracts.DriverError, "error creating CoreMIDI client", err)
	}
	return driver{client: c, logger: options.Logger}, nil
}

func (driver) API() contracts.API { return contracts.APICoreMIDI }

func sourceAt(port int) (coremidi.Source, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return coremidi.Source{}, contracts.NewError(contracts.DriverError, "error listing MIDI sources", err)
	}
	if err := connection.CheckPort(port, len(sources)); err != nil {
		return coremidi.Source{}, err
	}
	return sources[port], nil
}

func destinationAt(port int) (coremidi.Destination, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return coremidi.Destination{}, contracts.NewError(contracts.DriverError, "error listing MIDI destinations", err)
	}
	if err := connection.CheckPort(port, len(destinations)); err != nil {
		return coremidi.Destination{}, err
	}
	return destinations[port], nil
}
