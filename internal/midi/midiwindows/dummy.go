//go:build !windows
// +build !windows

package midiwindows

import (
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Available reports whether the backend is compiled in.
const Available = false

// NewInputDriver fails on non-Windows systems.
func NewInputDriver(options *contracts.ClientOptions) (connection.InputDriver, error) {
	options.Logger.Warn("Windows MM requested on a non-Windows system")
	return nil, contracts.NewError(contracts.InvalidParameter, "Windows MM is not available on this platform", contracts.ErrAPINotCompiled)
}

// NewOutputDriver fails on non-Windows systems.
func NewOutputDriver(options *contracts.ClientOptions) (connection.OutputDriver, error) {
	options.Logger.Warn("Windows MM requested on a non-Windows system")
	return nil, contracts.NewError(contracts.InvalidParameter, "Windows MM is not available on this platform", contracts.ErrAPINotCompiled)
}
