//go:build !linux

package midilinux

import (
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Available reports whether the backend is compiled in.
const Available = false

func NewInputDriver(*contracts.ClientOptions) (connection.InputDriver, error) {
	return nil, contracts.NewError(contracts.InvalidParameter, "ALSA is not available on this platform", contracts.ErrAPINotCompiled)
}

func NewOutputDriver(*contracts.ClientOptions) (connection.OutputDriver, error) {
	return nil, contracts.NewError(contracts.InvalidParameter, "ALSA is not available on this platform", contracts.ErrAPINotCompiled)
}
