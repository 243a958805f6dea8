// Package gpio drives the MSX joystick port lines and the status LED.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sweeney/msx-joypad/internal/logic"
)

// Port writes the joystick signals to the MSX side.
type Port interface {
	// Write applies both registers at once.
	Write(regs Registers) error

	// Close releases GPIO resources.
	Close() error
}

// Indicator is the two-state status LED.
type Indicator interface {
	Set(on bool) error
	Close() error
}

// Registers is the pair written to the port every cycle.
// Level holds the output levels, Direction has a bit set for each driven line.
type Registers struct {
	Level     uint8
	Direction uint8
}

// Mode selects how the port is wired to the MSX connector.
type Mode int

const (
	// ModeBuffered drives a 74LS03 open-collector NAND buffer:
	// asserted signals are driven high, all lines are outputs.
	ModeBuffered Mode = iota
	// ModeDirect wires the lines straight to the connector and emulates
	// open collector: asserted lines are driven low, others are released.
	ModeDirect
)

func (m Mode) String() string {
	switch m {
	case ModeBuffered:
		return "buffered"
	case ModeDirect:
		return "direct"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode parses "buffered" or "direct".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "buffered":
		return ModeBuffered, nil
	case "direct":
		return ModeDirect, nil
	}
	return 0, fmt.Errorf("unknown port mode %q (want buffered or direct)", s)
}

// Encode computes the register pair for the given signals.
func Encode(mode Mode, s logic.Signals) Registers {
	if mode == ModeDirect {
		return Registers{Level: ^uint8(s), Direction: uint8(s)}
	}
	return Registers{Level: uint8(s), Direction: 0xff}
}

// Lines in request order: Up, Down, Left, Right, Trigger1, Trigger2.
var lineSignals = [NumLines]logic.Signals{
	logic.SignalUp,
	logic.SignalDown,
	logic.SignalLeft,
	logic.SignalRight,
	logic.SignalTrigger1,
	logic.SignalTrigger2,
}

// NumLines is the number of joystick port lines driven.
const NumLines = 6

// DefaultPins are the BCM offsets for Up, Down, Left, Right, Trigger1, Trigger2.
var DefaultPins = [NumLines]int{17, 27, 22, 23, 24, 25}

// DefaultPinLED is the BCM offset of the status LED.
const DefaultPinLED = 18

// ParsePins parses a comma separated list of six BCM offsets.
func ParsePins(s string) ([NumLines]int, error) {
	var pins [NumLines]int
	parts := strings.Split(s, ",")
	if len(parts) != NumLines {
		return pins, fmt.Errorf("want %d pins, got %d", NumLines, len(parts))
	}
	seen := map[int]bool{}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return pins, fmt.Errorf("pin %d: %w", i, err)
		}
		if n < 0 {
			return pins, fmt.Errorf("pin %d: negative offset %d", i, n)
		}
		if seen[n] {
			return pins, fmt.Errorf("pin %d: offset %d used twice", i, n)
		}
		seen[n] = true
		pins[i] = n
	}
	return pins, nil
}

// LineValues maps a register pair onto per-line values in request order.
// A driven line takes its level bit; a released line reads 1, which on an
// open-drain line with pull-up is the same as an input with pull-up.
func LineValues(regs Registers) []int {
	values := make([]int, NumLines)
	for i, bit := range lineSignals {
		b := uint8(bit)
		switch {
		case regs.Direction&b == 0:
			values[i] = 1
		case regs.Level&b != 0:
			values[i] = 1
		}
	}
	return values
}
