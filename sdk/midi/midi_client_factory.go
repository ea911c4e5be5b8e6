package midi

import (
	"runtime"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/internal/midi/mididarwin"
	"github.com/leandrodaf/rtmidi/internal/midi/midilinux"
	"github.com/leandrodaf/rtmidi/internal/midi/midiloopback"
	"github.com/leandrodaf/rtmidi/internal/midi/midirtmidi"
	"github.com/leandrodaf/rtmidi/internal/midi/midiserial"
	"github.com/leandrodaf/rtmidi/internal/midi/midiwindows"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/samber/lo"
)

// backend describes how to build the drivers of one API.
type backend struct {
	available bool
	native    bool // candidate for APIUnspecified
	in        func(*contracts.ClientOptions) (connection.InputDriver, error)
	out       func(*contracts.ClientOptions) (connection.OutputDriver, error)
}

// backends maps APIs to their driver initializers, in the order APIUnspecified tries them.
var backends = map[contracts.API]backend{
	contracts.APICoreMIDI:  {mididarwin.Available, true, mididarwin.NewInputDriver, mididarwin.NewOutputDriver},
	contracts.APIALSA:      {midilinux.Available, true, midilinux.NewInputDriver, midilinux.NewOutputDriver},
	contracts.APIWindowsMM: {midiwindows.Available, true, midiwindows.NewInputDriver, midiwindows.NewOutputDriver},
	contracts.APIRtMidi:    {midirtmidi.Available, false, midirtmidi.NewInputDriver, midirtmidi.NewOutputDriver},
	contracts.APISerial:    {midiserial.Available, false, midiserial.NewInputDriver, midiserial.NewOutputDriver},
	contracts.APILoopback:  {midiloopback.Available, false, midiloopback.NewInputDriver, midiloopback.NewOutputDriver},
}

// apiOrder is the preference order of compiled APIs.
var apiOrder = []contracts.API{
	contracts.APICoreMIDI,
	contracts.APIALSA,
	contracts.APIWindowsMM,
	contracts.APIRtMidi,
	contracts.APISerial,
	contracts.APILoopback,
}

// CompiledAPIs returns the APIs compiled into this build for the running platform.
func CompiledAPIs() []contracts.API {
	return lo.Filter(apiOrder, func(api contracts.API, _ int) bool {
		return backends[api].available
	})
}

// resolveAPI picks the backend for api. APIUnspecified selects the first native
// API of the platform and falls back to loopback.
func resolveAPI(api contracts.API, log contracts.Logger) (contracts.API, backend, error) {
	if api == contracts.APIUnspecified {
		native, ok := lo.Find(apiOrder, func(a contracts.API) bool {
			return backends[a].available && backends[a].native
		})
		if !ok {
			log.Warn("no native MIDI API compiled for this platform, using loopback",
				log.Field().String("os", runtime.GOOS))
			native = contracts.APILoopback
		}
		api = native
	}

	b, ok := backends[api]
	if !ok || !b.available {
		return api, backend{}, contracts.NewError(contracts.InvalidParameter,
			"MIDI API "+api.DisplayName()+" is not compiled into this build", contracts.ErrAPINotCompiled)
	}
	return api, b, nil
}
