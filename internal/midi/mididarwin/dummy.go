//go:build !darwin
// +build !darwin

package mididarwin

import (
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Available reports whether the backend is compiled in.
const Available = false

func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	options.Logger.Warn("CoreMIDI requested on a non-macOS system")
	return nil, contracts.NewError(contracts.InvalidParameter, "CoreMIDI is not available on this platform", contracts.ErrAPINotCompiled)
}

func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	options.Logger.Warn("CoreMIDI requested on a non-macOS system")
	return nil, contracts.NewError(contracts.InvalidParameter, "CoreMIDI is not available on this platform", contracts.ErrAPINotCompiled)
}
