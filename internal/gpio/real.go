//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "msx-joypad"

// RealPort drives the joystick lines through the Linux GPIO character device.
// All six lines share one request, so a Write changes them together.
type RealPort struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
	mode  Mode
}

// NewRealPort requests the six joystick lines as outputs.
// In ModeDirect the lines are open-drain with pull-up.
func NewRealPort(chipName string, pins [NumLines]int, mode Mode) (*RealPort, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsOutput(LineValues(Encode(mode, 0))...),
	}
	if mode == ModeDirect {
		opts = append(opts, gpiocdev.AsOpenDrain, gpiocdev.WithPullUp)
	}

	lines, err := chip.RequestLines(pins[:], opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request port pins %v: %w", pins, err)
	}

	return &RealPort{chip: chip, lines: lines, mode: mode}, nil
}

// Write applies the register pair with a single request update.
func (p *RealPort) Write(regs Registers) error {
	if err := p.lines.SetValues(LineValues(regs)); err != nil {
		return fmt.Errorf("set port lines: %w", err)
	}
	return nil
}

// Close releases GPIO resources.
// Lines go back to input with pull-down, matching Pi boot defaults, so the
// MSX side sees no asserted signal while the adapter is down.
func (p *RealPort) Close() error {
	var errs []error

	if p.lines != nil {
		if err := p.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure port lines: %w", err))
		}
		if err := p.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close port lines: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealIndicator drives the status LED on one GPIO line.
type RealIndicator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealIndicator requests the LED line as an output, initially off.
func NewRealIndicator(chipName string, pin int) (*RealIndicator, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", pin, err)
	}

	return &RealIndicator{chip: chip, line: line}, nil
}

// Set turns the LED on or off.
func (r *RealIndicator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED: %w", err)
	}
	return nil
}

// Close turns the LED off and releases the line.
func (r *RealIndicator) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear LED: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
