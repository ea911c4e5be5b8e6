package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/leandrodaf/rtmidi/internal/logger"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/leandrodaf/rtmidi/sdk/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func runList(args []string) error {
	s, _, err := parseSettings("list", args)
	if err != nil {
		return err
	}
	apis := midi.CompiledAPIs()
	if s.API != "" {
		api, err := contracts.ParseAPI(s.API)
		if err != nil {
			return err
		}
		apis = []contracts.API{api}
	}

	for _, api := range apis {
		s.API = api.Name()
		opts, err := s.options(logger.NewNopLogger())
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", api.DisplayName())

		in, err := midi.NewMIDIIn(opts...)
		if err != nil {
			fmt.Printf("  unavailable: %v\n", err)
			continue
		}
		if err := printPorts("in", in); err != nil {
			return err
		}
		out, err := midi.NewMIDIOut(opts...)
		if err != nil {
			return err
		}
		if err := printPorts("out", out); err != nil {
			return err
		}
	}
	return nil
}

func printPorts(direction string, m contracts.MIDI) error {
	ports, err := midi.ListPorts(m)
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Printf("  %-3s (none)\n", direction)
	}
	for _, p := range ports {
		fmt.Printf("  %-3s %2d  %s\n", direction, p.Index, p.Name)
	}
	return nil
}

// resolvePort accepts a port index or a name fragment.
func resolvePort(m contracts.MIDI, selector string) (int, error) {
	if selector == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(selector); err == nil {
		return n, nil
	}
	port, err := midi.FindPort(m, selector)
	if err != nil {
		return -1, err
	}
	if port < 0 {
		return -1, fmt.Errorf("no %s port matches %q", m.API().DisplayName(), selector)
	}
	return port, nil
}

func newLogger(s *settings) contracts.Logger {
	if s.LogLevel == "debug" {
		return logger.NewDevelopmentLogger()
	}
	return logger.NewZapLogger()
}

func open(m contracts.MIDI, s *settings) error {
	if s.Virtual {
		return m.OpenVirtualPort(s.Name)
	}
	port, err := resolvePort(m, s.Port)
	if err != nil {
		return err
	}
	return m.OpenPort(port, s.Name)
}

// formatMessage renders one received message for the terminal.
func formatMessage(message []byte, deltaTime float64) string {
	return fmt.Sprintf("%10.6f  %-24s %s", deltaTime, fmt.Sprintf("% X", message), gomidi.Message(message).String())
}

func runMonitor(args []string) error {
	s, _, err := parseSettings("monitor", args)
	if err != nil {
		return err
	}
	opts, err := s.options(newLogger(s))
	if err != nil {
		return err
	}
	opts = append(opts, contracts.WithErrorCallback(func(kind contracts.ErrorKind, msg string) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", kind, msg)
	}))

	in, err := midi.NewMIDIIn(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if s.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.Duration))
		defer cancel()
	}

	var printMu sync.Mutex
	if s.Callback {
		err := in.SetCallback(func(_ contracts.MIDIIn, message []byte, deltaTime float64) {
			printMu.Lock()
			fmt.Println(formatMessage(message, deltaTime))
			printMu.Unlock()
		})
		if err != nil {
			return err
		}
	}
	if err := open(in, s); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "monitoring %s input, ctrl-c to stop\n", in.API().DisplayName())

	if s.Callback {
		<-ctx.Done()
	} else if err := poll(ctx, in, time.Duration(s.Poll)); err != nil {
		_ = in.Close()
		return err
	}

	closeErr := in.Close()
	st := in.Stats()
	fmt.Fprintf(os.Stderr, "delivered %d, dropped %d, filtered %d, malformed %d, clock discontinuities %d\n",
		st.Delivered, st.Dropped, st.Filtered, st.Malformed, st.Discontinuities)
	return closeErr
}

// poll drains the queue every interval until ctx is done.
func poll(ctx context.Context, in contracts.MIDIIn, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		for {
			message, deltaTime, err := in.Message()
			if err != nil {
				return err
			}
			if len(message) == 0 {
				break
			}
			fmt.Println(formatMessage(message, deltaTime))
		}
	}
}

// parseHex reads a message given as hex bytes, e.g. "90 40 5A", "90405a" or "0x90,0x40,0x5A".
func parseHex(args []string) ([]byte, error) {
	var b strings.Builder
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
			if len(field)%2 == 1 {
				field = "0" + field
			}
			b.WriteString(field)
		}
	}
	message, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex message: %w", err)
	}
	if len(message) == 0 {
		return nil, errors.New("no message bytes given")
	}
	return message, nil
}

func runSend(args []string) error {
	s, fs, err := parseSettings("send", args)
	if err != nil {
		return err
	}
	message, err := parseHex(fs.Args())
	if err != nil {
		return err
	}
	opts, err := s.options(newLogger(s))
	if err != nil {
		return err
	}

	out, err := midi.NewMIDIOut(opts...)
	if err != nil {
		return err
	}
	if err := open(out, s); err != nil {
		return err
	}
	defer out.Close()
	return out.SendMessage(message)
}

// selfTestMessages covers every framing class: program change, control change,
// note on, note off and a sysex.
var selfTestMessages = [][]byte{
	{0xC0, 0x05},
	{0xB0, 0x07, 0x64},
	{0x90, 0x40, 0x5A},
	{0x80, 0x40, 0x28},
	{0xF0, 0x43, 0x04, 0x03, 0x02, 0xF7},
}

// selfTest sends selfTestMessages through a loopback pair and returns what arrived.
func selfTest(opts []contracts.Option, timeout time.Duration) ([][]byte, error) {
	opts = append(opts, contracts.WithAPI(contracts.APILoopback), contracts.WithIgnoreTypes(false, false, false))

	in, err := midi.NewMIDIIn(opts...)
	if err != nil {
		return nil, err
	}
	received := make(chan []byte, len(selfTestMessages))
	err = in.SetCallback(func(_ contracts.MIDIIn, message []byte, _ float64) {
		select {
		case received <- append([]byte(nil), message...):
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	name := "midimon self-test " + strconv.Itoa(os.Getpid())
	if err := in.OpenVirtualPort(name); err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := midi.NewMIDIOut(opts...)
	if err != nil {
		return nil, err
	}
	port, err := midi.FindPort(out, name)
	if err != nil {
		return nil, err
	}
	if err := out.OpenPort(port, "midimon self-test sender"); err != nil {
		return nil, err
	}
	defer out.Close()

	for _, m := range selfTestMessages {
		if err := out.SendMessage(m); err != nil {
			return nil, err
		}
	}

	var got [][]byte
	deadline := time.After(timeout)
	for len(got) < len(selfTestMessages) {
		select {
		case m := <-received:
			got = append(got, m)
		case <-deadline:
			return got, fmt.Errorf("received %d of %d messages", len(got), len(selfTestMessages))
		}
	}
	return got, nil
}

func runLoopback(args []string) error {
	s, _, err := parseSettings("loopback", args)
	if err != nil {
		return err
	}
	opts, err := s.options(newLogger(s))
	if err != nil {
		return err
	}
	got, err := selfTest(opts, 2*time.Second)
	if err != nil {
		return err
	}
	for i, m := range got {
		status := "ok"
		if !bytes.Equal(m, selfTestMessages[i]) {
			status = fmt.Sprintf("FAIL, sent % X", selfTestMessages[i])
		}
		fmt.Printf("%d  %-24s %s\n", i+1, fmt.Sprintf("% X", m), status)
		if status != "ok" {
			err = errors.New("loopback self-test failed")
		}
	}
	if err == nil {
		fmt.Println("loopback self-test passed")
	}
	return err
}
