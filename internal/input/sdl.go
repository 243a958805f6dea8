//go:build sdl2

package input

import (
	"fmt"
	"strconv"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	Register("sdl", func(target string) (Device, error) {
		index := 0
		if target != "" {
			var err error
			if index, err = strconv.Atoi(target); err != nil {
				return nil, fmt.Errorf("sdl joystick index: %w", err)
			}
		}
		return NewSDLDevice(index), nil
	})
}

// SDLDevice reads a gamepad through SDL's joystick subsystem.
// Like JSDevice, a missing stick reads as a gameport with nothing attached.
type SDLDevice struct {
	index int
	stick *sdl.Joystick
	desc  Description
	state State
}

// NewSDLDevice creates an unopened device for the given joystick index.
func NewSDLDevice(index int) *SDLDevice {
	return &SDLDevice{index: index}
}

// Init starts the SDL joystick subsystem and opens the stick if present.
func (d *SDLDevice) Init() error {
	if err := sdl.InitSubSystem(sdl.INIT_JOYSTICK); err != nil {
		return fmt.Errorf("init sdl joystick: %w", err)
	}
	if !d.open() {
		d.detach(unpopulatedAxis)
	}
	return nil
}

// Update polls SDL and refreshes the snapshot.
func (d *SDLDevice) Update() error {
	sdl.JoystickUpdate()

	if d.stick != nil && !d.stick.Attached() {
		d.stick.Close()
		d.stick = nil
		d.detach(openAxis)
	}
	if d.stick == nil && !d.open() {
		return nil
	}

	for i := range d.state.Axes {
		d.state.Axes[i] = ScaleAxis(d.stick.Axis(i))
	}
	var buttons uint32
	for i := 0; i < d.desc.NumButtons && i < maxSDLButtons; i++ {
		if d.stick.Button(i) != 0 {
			buttons |= 1 << i
		}
	}
	d.state.Buttons = buttons
	if d.desc.HasHat {
		// SDL hat bits use the same layout as ours.
		d.state.Hat = d.stick.Hat(0) & (HatUp | HatRight | HatDown | HatLeft)
	}
	return nil
}

const maxSDLButtons = 32

// State returns a copy of the last snapshot.
func (d *SDLDevice) State() State {
	s := d.state
	s.Axes = append([]int16(nil), d.state.Axes...)
	return s
}

// Description returns the stick capabilities.
func (d *SDLDevice) Description() Description {
	return d.desc
}

// Close releases the stick and the SDL joystick subsystem.
func (d *SDLDevice) Close() error {
	if d.stick != nil {
		d.stick.Close()
		d.stick = nil
	}
	sdl.QuitSubSystem(sdl.INIT_JOYSTICK)
	return nil
}

func (d *SDLDevice) open() bool {
	if sdl.NumJoysticks() <= d.index {
		return false
	}
	stick := sdl.JoystickOpen(d.index)
	if stick == nil {
		return false
	}
	d.stick = stick
	d.desc = Description{
		Name:       stick.Name(),
		NumAxes:    stick.NumAxes(),
		NumButtons: stick.NumButtons(),
		HasHat:     stick.NumHats() > 0,
	}
	d.state = State{Axes: make([]int16, d.desc.NumAxes)}
	return true
}

func (d *SDLDevice) detach(axis int16) {
	d.desc = absentDescription(fmt.Sprintf("no joystick at sdl index %d", d.index))
	d.state = gameportState(axis)
}
