//go:build !rtmidi

package midirtmidi

import (
	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Available reports whether the backend is compiled in. Build with -tags rtmidi to enable it.
const Available = false

func NewInputDriver(*contracts.ClientOptions) (connection.InputDriver, error) {
	return nil, contracts.NewError(contracts.InvalidParameter, "rtmidi support requires the rtmidi build tag", contracts.ErrAPINotCompiled)
}

func NewOutputDriver(*contracts.ClientOptions) (connection.OutputDriver, error) {
	return nil, contracts.NewError(contracts.InvalidParameter, "rtmidi support requires the rtmidi build tag", contracts.ErrAPINotCompiled)
}
