package logic

import "strings"

// Signals is the packed output word for the MSX joystick port.
// Bit positions match the port register wiring.
type Signals uint8

const (
	SignalTrigger2 Signals = 1 << 2 // pin 7
	SignalTrigger1 Signals = 1 << 3 // pin 6
	SignalRight    Signals = 1 << 4 // pin 4
	SignalLeft     Signals = 1 << 5 // pin 3
	SignalDown     Signals = 1 << 6 // pin 2
	SignalUp       Signals = 1 << 7 // pin 1
)

// AllSignals has every meaningful bit set.
const AllSignals = SignalUp | SignalDown | SignalLeft | SignalRight | SignalTrigger1 | SignalTrigger2

// Has reports whether every bit in f is set in s.
func (s Signals) Has(f Signals) bool {
	return s&f == f
}

var signalNames = []struct {
	bit  Signals
	name string
}{
	{SignalUp, "UP"},
	{SignalDown, "DOWN"},
	{SignalLeft, "LEFT"},
	{SignalRight, "RIGHT"},
	{SignalTrigger1, "TRIGGER1"},
	{SignalTrigger2, "TRIGGER2"},
}

// Names returns the names of the asserted signals, in port pin order.
func (s Signals) Names() []string {
	names := []string{}
	for _, sn := range signalNames {
		if s&sn.bit != 0 {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Signals) String() string {
	if s&AllSignals == 0 {
		return "NONE"
	}
	return strings.Join(s.Names(), "|")
}

// Button mask bits mapped onto the two triggers.
const (
	trigger1Buttons uint32 = 0x01 | 0x04
	trigger2Buttons uint32 = 0x02 | 0x08
)

// DeriveAxes picks lx and ly from the first two axes.
// An axis the device does not have reads as AxisThresholdMin,
// which is neither centered nor full scale.
func DeriveAxes(axes []int16, numAxes int) (lx, ly int16) {
	lx, ly = AxisThresholdMin, AxisThresholdMin
	if numAxes > 0 && len(axes) > 0 {
		lx = axes[0]
	}
	if numAxes > 1 && len(axes) > 1 {
		ly = axes[1]
	}
	return lx, ly
}

// DeriveSignals maps axes and buttons onto the port signals.
func DeriveSignals(lx, ly int16, buttons uint32) Signals {
	var s Signals

	if buttons&trigger1Buttons != 0 {
		s |= SignalTrigger1
	}
	if buttons&trigger2Buttons != 0 {
		s |= SignalTrigger2
	}

	// Opposite directions never assert together. With the current
	// thresholds the guards cannot trigger, they are kept for other splits.
	if ly > AxisThresholdMax && s&SignalUp == 0 {
		s |= SignalDown
	}
	if ly < AxisThresholdMin && s&SignalDown == 0 {
		s |= SignalUp
	}
	if lx < AxisThresholdMin && s&SignalRight == 0 {
		s |= SignalLeft
	}
	if lx > AxisThresholdMax && s&SignalLeft == 0 {
		s |= SignalRight
	}

	return s
}
