package midi_test

import (
	"fmt"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/leandrodaf/rtmidi/sdk/midi"
)

// Messages sent to a virtual loopback output arrive at every input that opened it.
func ExampleNewMIDIIn() {
	nop := contracts.WithLogger(logger.NewNopLogger())
	loopback := contracts.WithAPI(contracts.APILoopback)

	out, _ := midi.NewMIDIOut(nop, loopback)
	_ = out.OpenVirtualPort("example keyboard")
	defer out.Close()

	in, _ := midi.NewMIDIIn(nop, loopback)
	port, _ := midi.FindPort(in, "example keyboard")

	received := make(chan []byte, 1)
	_ = in.SetCallback(func(_ contracts.MIDIIn, message []byte, deltaTime float64) {
		received <- append([]byte(nil), message...)
	})
	_ = in.OpenPort(port, "example reader")
	defer in.Close()

	_ = out.SendMessage([]byte{0xC0, 0x05})
	fmt.Printf("% X\n", <-received)
	// Output: C0 05
}
