package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/leandrodaf/rtmidi/sdk/midi"
)

func main() {
	log := logger.NewDevelopmentLogger()

	in, err := midi.NewMIDIIn(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithIgnoreTypes(true, true, true),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI input", log.Field().Error("error", err))
		return
	}

	ports, err := midi.ListPorts(in)
	if err != nil || len(ports) == 0 {
		log.Error("No MIDI ports found or error listing ports", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI input ports:", ports)

	err = in.SetCallback(func(_ contracts.MIDIIn, message []byte, deltaTime float64) {
		log.Info("MIDI message",
			log.Field().Float64("delta", deltaTime),
			log.Field().String("bytes", fmt.Sprintf("% X", message)),
		)
	})
	if err != nil {
		log.Error("Failed to set callback", log.Field().Error("error", err))
		return
	}

	if err = in.OpenPort(ports[0].Index, "simple use"); err != nil {
		log.Error("Failed to open MIDI port", log.Field().Error("error", err))
		return
	}
	defer in.Close()

	fmt.Println("Capturing MIDI messages... Press Ctrl+C to exit.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
}
