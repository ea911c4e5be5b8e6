//go:build linux

// Package midilinux talks to ALSA rawmidi devices through /dev/snd/midiC*D*.
package midilinux

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leandrodaf/rtmidi/internal/midi/connection"
	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"github.com/samber/lo"
)

// Available reports whether the backend is compiled in.
const Available = true

var (
	devDir  = "/dev/snd"
	procDir = "/proc/asound"
)

type device struct {
	path         string
	card, number int
	name         string
}

// listDevices returns the rawmidi devices ordered by card and device number.
func listDevices() ([]device, error) {
	paths, err := filepath.Glob(filepath.Join(devDir, "midiC*D*"))
	if err != nil {
		return nil, err
	}
	devices := lo.FilterMap(paths, func(path string, _ int) (device, bool) {
		d := device{path: path}
		if _, err := fmt.Sscanf(filepath.Base(path), "midiC%dD%d", &d.card, &d.number); err != nil {
			return d, false
		}
		d.name = deviceName(d.card, d.number)
		return d, true
	})
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].card != devices[j].card {
			return devices[i].card < devices[j].card
		}
		return devices[i].number < devices[j].number
	})
	return devices, nil
}

// deviceName reads the rawmidi name from /proc/asound/cardN/midiD, whose first
// line is the device name. It falls back to the card id and then to hw:N,D.
func deviceName(card, number int) string {
	hw := fmt.Sprintf("hw:%d,%d", card, number)
	if name := firstLine(filepath.Join(procDir, fmt.Sprintf("card%d", card), fmt.Sprintf("midi%d", number))); name != "" {
		return fmt.Sprintf("%s (%s)", name, hw)
	}
	if id := firstLine(filepath.Join(procDir, fmt.Sprintf("card%d", card), "id")); id != "" {
		return fmt.Sprintf("%s (%s)", id, hw)
	}
	return hw
}

func firstLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	if !s.Scan() {
		return ""
	}
	return strings.TrimSpace(s.Text())
}

type driver struct {
	logger contracts.Logger
}

func (driver) API() contracts.API { return contracts.APIALSA }

func (driver) PortCount() (int, error) {
	devices, err := listDevices()
	return len(devices), err
}

func (d driver) PortName(port int) (string, error) {
	dev, err := d.device(port)
	return dev.name, err
}

func (driver) device(port int) (device, error) {
	devices, err := listDevices()
	if err != nil {
		return device{}, err
	}
	if err := connection.CheckPort(port, len(devices)); err != nil {
		return device{}, err
	}
	return devices[port], nil
}
