// Command midimon lists MIDI ports, monitors MIDI input and sends MIDI messages.
package main

import (
	"fmt"
	"os"
)

// Overridable with -ldflags "-X main.version=1.2.3".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "monitor":
		err = runMonitor(os.Args[2:])
	case "send":
		err = runSend(os.Args[2:])
	case "loopback":
		err = runLoopback(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("midimon %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "midimon %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("midimon - MIDI port monitor")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  midimon <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list       list compiled APIs and their input and output ports")
	fmt.Println("  monitor    print incoming messages with their delta times")
	fmt.Println("  send       send one message given as hex bytes")
	fmt.Println("  loopback   run the in-process loopback self-test")
	fmt.Println("  version    print the version")
	fmt.Println("")
	fmt.Println("Every command accepts -config <file.json>; flags given on the command line win.")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  midimon list -api alsa")
	fmt.Println("  midimon monitor -port 'Launchkey' -ignore-time=false -duration 30s")
	fmt.Println("  midimon monitor -api serial -port /dev/ttyUSB0 -baud 31250 -callback")
	fmt.Println("  midimon send -port 1 90 40 5A")
}
