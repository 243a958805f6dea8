// Package input provides gamepad polling with hardware abstraction.
// The js backend uses the Linux joystick API, the sdl backend (build tag sdl2)
// uses SDL. The fake implementation allows testing without hardware.
package input

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// State is one polled snapshot of the device.
// Axes are in gameport units, 0..1023.
type State struct {
	Axes    []int16
	Buttons uint32
	Hat     uint8
}

// Hat bits. Zero means centered.
const (
	HatUp    uint8 = 0x01
	HatRight uint8 = 0x02
	HatDown  uint8 = 0x04
	HatLeft  uint8 = 0x08
)

// Description reports what the device exposes.
type Description struct {
	Name       string
	NumAxes    int
	NumButtons int
	HasHat     bool
}

// Device is a polled gamepad.
type Device interface {
	// Init brings the device online.
	Init() error

	// Update refreshes State from the hardware.
	Update() error

	// State returns the last refreshed snapshot.
	State() State

	// Description returns the device capabilities.
	Description() Description
}

// Gameport readings reported while no stick is attached. They reproduce
// what an analog PC gameport reads in the same situation.
const (
	openAxis        = 1023 // stick unplugged after boot: open circuit
	unpopulatedAxis = 511  // nothing plugged at boot
	liveAxisMax     = 1022
)

// absentDescription is reported when no stick is attached, so the first two
// axes are present and carry the gameport reading.
func absentDescription(name string) Description {
	return Description{Name: name, NumAxes: 2}
}

func gameportState(axis int16) State {
	return State{Axes: []int16{axis, axis}}
}

// ScaleAxis converts a signed joystick reading to gameport units.
// The rest position maps to 512 and full scale is clamped to 1022, so a live
// stick never reads as either of the two disconnected signatures.
func ScaleAxis(v int16) int16 {
	s := (int32(v) + 32768) >> 6
	switch {
	case s > liveAxisMax:
		s = liveAxisMax
	case s == unpopulatedAxis:
		// just left of rest, still inside the center band
		s = unpopulatedAxis + 1
	}
	return int16(s)
}

// Opener creates an unopened device for a backend-specific target.
type Opener func(target string) (Device, error)

var (
	backendsMu sync.Mutex
	backends   = map[string]Opener{}
)

// Register makes a backend available to Open under the given name.
func Register(name string, open Opener) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = open
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates a device from a "backend:target" string, such as
// "js:/dev/input/js0" or "sdl:0". A bare path selects the js backend.
// The device is not initialised.
func Open(uri string) (Device, error) {
	name, target, ok := strings.Cut(uri, ":")
	if !ok {
		name, target = "js", uri
	}

	backendsMu.Lock()
	open, found := backends[name]
	backendsMu.Unlock()
	if !found {
		return nil, fmt.Errorf("unknown input backend %q (available: %s)", name, strings.Join(Backends(), ", "))
	}

	dev, err := open(target)
	if err != nil {
		return nil, fmt.Errorf("open %s device %q: %w", name, target, err)
	}
	return dev, nil
}
