package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/leandrodaf/rtmidi/sdk/midi"
	"github.com/samber/lo"
)

// duration is a time.Duration that reads "150ms" style strings from flags and JSON.
type duration time.Duration

func (d *duration) String() string { return time.Duration(*d).String() }

func (d *duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"100ms\": %w", err)
	}
	return d.Set(s)
}

// settings holds everything a command can be configured with, from flags or a JSON file.
type settings struct {
	API         string   `json:"api"`
	Port        string   `json:"port"` // index or case-insensitive name fragment
	Name        string   `json:"name"`
	Virtual     bool     `json:"virtual"`
	QueueSize   int      `json:"queue_size"`
	Callback    bool     `json:"callback"`
	IgnoreSysex bool     `json:"ignore_sysex"`
	IgnoreTime  bool     `json:"ignore_time"`
	IgnoreSense bool     `json:"ignore_sense"`
	Poll        duration `json:"poll"`
	Duration    duration `json:"duration"`
	LogLevel    string   `json:"log_level"`
	LogFile     string   `json:"log_file"`
	BaudRate    int      `json:"baud_rate"`

	config string
}

func newSettings() *settings {
	return &settings{
		Name:        "midimon",
		QueueSize:   midi.DefaultQueueSize,
		IgnoreSysex: true,
		IgnoreTime:  true,
		IgnoreSense: true,
		Poll:        duration(time.Millisecond),
		LogLevel:    "warn",
	}
}

func (s *settings) bind(fs *flag.FlagSet) {
	fs.StringVar(&s.config, "config", "", "JSON config file; flags given explicitly override it")
	fs.StringVar(&s.API, "api", s.API, "MIDI API: "+strings.Join(apiNames(), "|")+" (empty picks the native one)")
	fs.StringVar(&s.Port, "port", s.Port, "port index or name fragment")
	fs.StringVar(&s.Name, "name", s.Name, "name announced for the connection")
	fs.BoolVar(&s.Virtual, "virtual", s.Virtual, "open a virtual port named -name instead of -port")
	fs.IntVar(&s.QueueSize, "queue", s.QueueSize, "input queue size, 0 disables the queue")
	fs.BoolVar(&s.Callback, "callback", s.Callback, "receive through a callback instead of polling the queue")
	fs.BoolVar(&s.IgnoreSysex, "ignore-sysex", s.IgnoreSysex, "drop system exclusive messages")
	fs.BoolVar(&s.IgnoreTime, "ignore-time", s.IgnoreTime, "drop timing clock and MTC quarter frames")
	fs.BoolVar(&s.IgnoreSense, "ignore-sense", s.IgnoreSense, "drop active sensing")
	fs.Var(&s.Poll, "poll", "queue polling interval")
	fs.Var(&s.Duration, "duration", "stop monitoring after this long, 0 runs until interrupted")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "debug|info|warn|error")
	fs.StringVar(&s.LogFile, "log-file", s.LogFile, "write logs as JSON to this file")
	fs.IntVar(&s.BaudRate, "baud", s.BaudRate, "serial baud rate, 0 uses 31250")
}

// parseSettings parses args for command. When -config is given the file is applied
// first and the arguments are parsed a second time so explicitly set flags win.
func parseSettings(command string, args []string) (*settings, *flag.FlagSet, error) {
	s := newSettings()
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	s.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(s.config) == "" {
		return s, fs, nil
	}
	if err := s.load(s.config); err != nil {
		return nil, nil, fmt.Errorf("reading -config: %w", err)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return s, fs, nil
}

func (s *settings) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	return dec.Decode(s)
}

// options translates s into client options.
func (s *settings) options(log contracts.Logger) ([]contracts.Option, error) {
	api := contracts.APIUnspecified
	if s.API != "" {
		a, err := contracts.ParseAPI(s.API)
		if err != nil {
			return nil, err
		}
		api = a
	}
	level, ok := contracts.ParseLogLevel(s.LogLevel)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", s.LogLevel)
	}

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithAPI(api),
		contracts.WithClientName(s.Name),
		contracts.WithQueueSize(s.QueueSize),
		contracts.WithIgnoreTypes(s.IgnoreSysex, s.IgnoreTime, s.IgnoreSense),
		contracts.WithSerialConfig(contracts.SerialConfig{BaudRate: s.BaudRate}),
	}
	if s.LogFile != "" {
		opts = append(opts, contracts.WithLogFile(s.LogFile))
	}
	return opts, nil
}

func apiNames() []string {
	return lo.Map(midi.CompiledAPIs(), func(api contracts.API, _ int) string {
		return api.Name()
	})
}
