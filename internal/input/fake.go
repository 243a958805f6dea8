package input

import "errors"

// FakeDevice is a test double that returns scripted states.
type FakeDevice struct {
	// Desc is returned by Description.
	Desc Description

	// States contains scripted snapshots.
	// Each call to Update() advances to the next one.
	States []State

	// index tracks current position in States
	index int

	// InitError, if set, will be returned by Init().
	InitError error

	// UpdateError, if set, will be returned by Update().
	UpdateError error

	// Inited tracks if Init was called successfully.
	Inited bool

	// Updates counts successful Update calls.
	Updates int
}

// NewFakeDevice creates a two-axis, four-button FakeDevice with the given states.
func NewFakeDevice(states []State) *FakeDevice {
	return &FakeDevice{
		Desc:   Description{Name: "fake gamepad", NumAxes: 2, NumButtons: 4},
		States: states,
		index:  -1,
	}
}

// Init marks the device as initialised.
func (f *FakeDevice) Init() error {
	if f.InitError != nil {
		return f.InitError
	}
	f.Inited = true
	return nil
}

// Update advances to the next scripted state.
// If states are exhausted, the last state is repeated.
func (f *FakeDevice) Update() error {
	if f.UpdateError != nil {
		return f.UpdateError
	}
	if len(f.States) == 0 {
		return errors.New("no states configured")
	}
	if f.index < len(f.States)-1 {
		f.index++
	}
	f.Updates++
	return nil
}

// State returns the current scripted state.
func (f *FakeDevice) State() State {
	if f.index < 0 || len(f.States) == 0 {
		return State{}
	}
	return f.States[f.index]
}

// Description returns Desc.
func (f *FakeDevice) Description() Description {
	return f.Desc
}

// Reset rewinds the device to before the first state.
func (f *FakeDevice) Reset() {
	f.index = -1
	f.Inited = false
	f.Updates = 0
}

// Axes is a convenience for building a two-axis State.
func Axes(lx, ly int16, buttons uint32) State {
	return State{Axes: []int16{lx, ly}, Buttons: buttons}
}
