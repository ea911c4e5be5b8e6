package midi

import (
	"strings"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/samber/lo"
)

// NewMIDIIn creates a closed MIDI input with the specified options.
// It applies default options and initializes the backend selected by WithAPI.
//
// opts ...contracts.Option: A variadic list of option functions to customize the input configuration.
//
// Returns:
//   - contracts.MIDIIn: The input; open it with OpenPort or OpenVirtualPort.
//   - error: An error if the API is not compiled in or the backend failed to initialize.
func NewMIDIIn(opts ...contracts.Option) (contracts.MIDIIn, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	api, b, err := resolveAPI(options.API, options.Logger)
	if err != nil {
		return nil, err
	}
	drv, err := b.in(&options)
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("MIDI input created", options.Logger.Field().String("api", api.Name()))
	return connection.NewInput(drv, &options), nil
}

// NewMIDIOut creates a closed MIDI output with the specified options.
func NewMIDIOut(opts ...contracts.Option) (contracts.MIDIOut, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	api, b, err := resolveAPI(options.API, options.Logger)
	if err != nil {
		return nil, err
	}
	drv, err := b.out(&options)
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("MIDI output created", options.Logger.Field().String("api", api.Name()))
	return connection.NewOutput(drv, &options), nil
}

// ListPorts returns every port of m with its index and API.
func ListPorts(m contracts.MIDI) ([]contracts.PortInfo, error) {
	n, err := m.PortCount()
	if err != nil {
		return nil, err
	}
	ports := make([]contracts.PortInfo, 0, n)
	for i := 0; i < n; i++ {
		name, err := m.PortName(i)
		if err != nil {
			return nil, err
		}
		ports = append(ports, contracts.PortInfo{Index: i, Name: name, API: m.API()})
	}
	return ports, nil
}

// FindPort returns the index of the first port whose name contains substr,
// ignoring case. It returns -1 when no port matches.
func FindPort(m contracts.MIDI, substr string) (int, error) {
	ports, err := ListPorts(m)
	if err != nil {
		return -1, err
	}
	needle := strings.ToLower(substr)
	port, ok := lo.Find(ports, func(p contracts.PortInfo) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	if !ok {
		return -1, nil
	}
	return port.Index, nil
}
