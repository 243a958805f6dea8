// Package adapter binds a polled gamepad to the MSX joystick port.
// It owns the connection state machine and drives the status LED and
// port lines; the driver loop owns everything else.
package adapter

import (
	"errors"
	"fmt"
	"log"

	"github.com/sweeney/msx-joypad/internal/gpio"
	"github.com/sweeney/msx-joypad/internal/input"
	"github.com/sweeney/msx-joypad/internal/logic"
)

// ErrNoDevice is returned when no input device is bound.
var ErrNoDevice = errors.New("no input device")

// Report describes one Update cycle.
type Report struct {
	State   logic.ConnState
	Signals logic.Signals
	LX      int16
	LY      int16
	Buttons uint32
	Device  input.Description
	Events  []logic.Event
	Outcome logic.Outcome
}

// Adapter translates gamepad snapshots into port signals.
// Not safe for concurrent use.
type Adapter struct {
	dev     input.Device
	port    gpio.Port
	led     gpio.Indicator
	mode    gpio.Mode
	millis  func() logic.Millis
	machine *logic.Machine
	tracer  *tracer
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDeadTime overrides logic.DeadTime.
func WithDeadTime(d logic.Millis) Option {
	return func(a *Adapter) {
		a.machine = logic.NewMachine(d)
	}
}

// WithDiagnostics logs every snapshot.
func WithDiagnostics() Option {
	return func(a *Adapter) {
		a.tracer = &tracer{}
	}
}

// New creates an unbound adapter writing to port in the given mode.
func New(port gpio.Port, led gpio.Indicator, mode gpio.Mode, millis func() logic.Millis, opts ...Option) *Adapter {
	a := &Adapter{
		port:    port,
		led:     led,
		mode:    mode,
		millis:  millis,
		machine: logic.NewMachine(logic.DeadTime),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init brings dev online and binds it.
// Nothing is written to the port until the first Update.
func (a *Adapter) Init(dev input.Device) error {
	if dev == nil {
		return ErrNoDevice
	}
	if err := dev.Init(); err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	a.dev = dev
	a.machine.Reset()
	a.setLED(true)

	desc := dev.Description()
	log.Printf("configured device: %s (%d axes, %d buttons)", desc.Name, desc.NumAxes, desc.NumButtons)
	return nil
}

// Update polls the device once, advances the state machine and writes
// the port. On logic.OutcomeRestart the port is left alone and the caller
// must stop calling Update and hand off to the reset primitive.
func (a *Adapter) Update() (Report, error) {
	if a.dev == nil {
		return Report{}, ErrNoDevice
	}
	if err := a.dev.Update(); err != nil {
		return Report{}, fmt.Errorf("update device: %w", err)
	}

	state := a.dev.State()
	desc := a.dev.Description()
	if a.tracer != nil {
		a.tracer.trace(desc, state)
	}

	lx, ly := logic.DeriveAxes(state.Axes, desc.NumAxes)
	res := a.machine.Step(logic.Input{
		LX:      lx,
		LY:      ly,
		Buttons: state.Buttons,
		Now:     a.millis(),
	})

	for _, e := range res.Events {
		switch e.Type {
		case logic.EventDisconnectConfirmed:
			log.Printf("adapter booted with joystick connected, but now joystick is disconnected")
			a.setLED(false)
		case logic.EventAbsentConfirmed:
			log.Printf("adapter booted with joystick disconnected")
			a.setLED(false)
		case logic.EventReconnected:
			log.Printf("joystick reconnected, restarting adapter!")
		}
	}

	rep := Report{
		State:   res.State,
		Signals: res.Signals,
		LX:      lx,
		LY:      ly,
		Buttons: state.Buttons,
		Device:  desc,
		Events:  res.Events,
		Outcome: res.Outcome,
	}
	if res.Outcome == logic.OutcomeRestart {
		return rep, nil
	}

	if err := a.port.Write(gpio.Encode(a.mode, res.Signals)); err != nil {
		log.Printf("port write error: %v", err)
	}
	return rep, nil
}

// State returns the current connection state.
func (a *Adapter) State() logic.ConnState {
	return a.machine.State()
}

// Counts returns the connection event counts since startup.
func (a *Adapter) Counts() logic.EventCounts {
	return a.machine.Counts()
}

// Description returns the bound device's capabilities.
func (a *Adapter) Description() input.Description {
	if a.dev == nil {
		return input.Description{}
	}
	return a.dev.Description()
}

func (a *Adapter) setLED(on bool) {
	if err := a.led.Set(on); err != nil {
		log.Printf("led error: %v", err)
	}
}
