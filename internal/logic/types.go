// Package logic contains pure business logic for the MSX joystick adapter.
// This package has NO external dependencies (no GPIO, input devices, OS, or time.Sleep).
// Time is always injectable as a Millis counter.
package logic

// Millis is a monotonic millisecond counter that wraps at 2^32.
type Millis uint32

// Since returns the milliseconds elapsed from start to m.
// Both operands are uint32, so the subtraction stays correct across wraparound.
func (m Millis) Since(start Millis) Millis {
	return m - start
}

// Axis range and thresholds of the gameport readings.
const (
	AxisMin    = 0
	AxisMax    = 1023
	AxisCenter = 511

	AxisThreshold    = (AxisMax - AxisMin) / 3
	AxisThresholdMin = AxisMin + AxisThreshold // 341
	AxisThresholdMax = AxisMax - AxisThreshold // 682
)

// DeadTime is how long a sentinel reading must persist before it is trusted.
const DeadTime Millis = 2000

// ConnState is the connection-confidence state of the adapter.
// The two Maybe variants carry the time they were entered; the others carry nothing.
type ConnState interface {
	String() string
	connState()
}

// ConnectedConnected is the nominal state. Signals are derived only here.
type ConnectedConnected struct{}

// ConnectedUnconnectedMaybe: booted with a joystick, now reading as open.
type ConnectedUnconnectedMaybe struct {
	Since Millis
}

// ConnectedUnconnectedConfirmed: booted with a joystick, disconnection confirmed.
type ConnectedUnconnectedConfirmed struct{}

// UnconnectedUnconnectedMaybe: reading as never connected.
type UnconnectedUnconnectedMaybe struct {
	Since Millis
}

// UnconnectedUnconnectedConfirmed: booted without a joystick, confirmed.
type UnconnectedUnconnectedConfirmed struct{}

func (ConnectedConnected) connState()              {}
func (ConnectedUnconnectedMaybe) connState()       {}
func (ConnectedUnconnectedConfirmed) connState()   {}
func (UnconnectedUnconnectedMaybe) connState()     {}
func (UnconnectedUnconnectedConfirmed) connState() {}

func (ConnectedConnected) String() string              { return "CONNECTED_CONNECTED" }
func (ConnectedUnconnectedMaybe) String() string       { return "CONNECTED_UNCONNECTED_MAYBE" }
func (ConnectedUnconnectedConfirmed) String() string   { return "CONNECTED_UNCONNECTED_CONFIRMED" }
func (UnconnectedUnconnectedMaybe) String() string     { return "UNCONNECTED_UNCONNECTED_MAYBE" }
func (UnconnectedUnconnectedConfirmed) String() string { return "UNCONNECTED_UNCONNECTED_CONFIRMED" }

// IsConfirmed reports whether s is one of the two Confirmed states.
func IsConfirmed(s ConnState) bool {
	switch s.(type) {
	case ConnectedUnconnectedConfirmed, UnconnectedUnconnectedConfirmed:
		return true
	}
	return false
}

// Outcome tells the driver loop what to do after a step.
type Outcome int

const (
	// OutcomeContinue means keep polling.
	OutcomeContinue Outcome = iota
	// OutcomeRestart means stop polling and hand off to the reset primitive.
	OutcomeRestart
)

func (o Outcome) String() string {
	if o == OutcomeRestart {
		return "RESTART"
	}
	return "CONTINUE"
}

// EventType represents a connection state change to be reported.
type EventType string

const (
	EventDisconnectSuspected EventType = "DISCONNECT_SUSPECTED"
	EventDisconnectConfirmed EventType = "DISCONNECT_CONFIRMED"
	EventAbsentSuspected     EventType = "ABSENT_SUSPECTED"
	EventAbsentConfirmed     EventType = "ABSENT_CONFIRMED"
	EventConnected           EventType = "CONNECTED"
	EventReconnected         EventType = "RECONNECTED"
)

// Event represents a state change observed by the machine.
type Event struct {
	At   Millis
	Type EventType
	From ConnState
	To   ConnState
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	DisconnectSuspected int
	DisconnectConfirmed int
	AbsentSuspected     int
	AbsentConfirmed     int
	Connected           int
}

// Input represents a single derived sample.
type Input struct {
	LX      int16
	LY      int16
	Buttons uint32
	Now     Millis
}

// Result is the output of one machine step.
type Result struct {
	State   ConnState
	Signals Signals
	Events  []Event
	Outcome Outcome
}
