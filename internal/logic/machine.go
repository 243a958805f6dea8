package logic

// Machine tracks connection confidence and derives port signals.
type Machine struct {
	deadTime Millis
	state    ConnState
	counts   EventCounts
}

// NewMachine creates a machine in the nominal ConnectedConnected state.
func NewMachine(deadTime Millis) *Machine {
	return &Machine{
		deadTime: deadTime,
		state:    ConnectedConnected{},
	}
}

// Reset puts the machine back in the nominal state.
func (m *Machine) Reset() {
	m.state = ConnectedConnected{}
}

// State returns the current connection state.
func (m *Machine) State() ConnState {
	return m.state
}

// Counts returns the number of each event seen since startup.
func (m *Machine) Counts() EventCounts {
	return m.counts
}

// Step advances the machine by one polling interval.
// Signals are rebuilt from zero each step and are only non-zero in
// ConnectedConnected. A live reading in a Confirmed state returns
// OutcomeRestart and leaves the state untouched.
func (m *Machine) Step(in Input) Result {
	var events []Event

	switch {
	case in.LX == AxisMax && in.LY == AxisMax:
		switch s := m.state.(type) {
		case ConnectedConnected:
			events = m.transition(events, ConnectedUnconnectedMaybe{Since: in.Now}, EventDisconnectSuspected, in.Now)
		case ConnectedUnconnectedMaybe:
			if in.Now.Since(s.Since) >= m.deadTime {
				events = m.transition(events, ConnectedUnconnectedConfirmed{}, EventDisconnectConfirmed, in.Now)
			}
		}

	case in.LX == AxisCenter && in.LY == AxisCenter:
		switch s := m.state.(type) {
		case ConnectedConnected:
			events = m.transition(events, UnconnectedUnconnectedMaybe{Since: in.Now}, EventAbsentSuspected, in.Now)
		case UnconnectedUnconnectedMaybe:
			if in.Now.Since(s.Since) >= m.deadTime {
				events = m.transition(events, UnconnectedUnconnectedConfirmed{}, EventAbsentConfirmed, in.Now)
			}
		}

	default:
		switch m.state.(type) {
		case ConnectedUnconnectedConfirmed, UnconnectedUnconnectedConfirmed:
			events = append(events, Event{At: in.Now, Type: EventReconnected, From: m.state, To: m.state})
			return Result{State: m.state, Events: events, Outcome: OutcomeRestart}
		case ConnectedConnected:
		default:
			events = m.transition(events, ConnectedConnected{}, EventConnected, in.Now)
		}
	}

	var signals Signals
	if _, ok := m.state.(ConnectedConnected); ok {
		signals = DeriveSignals(in.LX, in.LY, in.Buttons)
	}

	return Result{State: m.state, Signals: signals, Events: events}
}

func (m *Machine) transition(events []Event, to ConnState, typ EventType, now Millis) []Event {
	from := m.state
	m.state = to

	switch typ {
	case EventDisconnectSuspected:
		m.counts.DisconnectSuspected++
	case EventDisconnectConfirmed:
		m.counts.DisconnectConfirmed++
	case EventAbsentSuspected:
		m.counts.AbsentSuspected++
	case EventAbsentConfirmed:
		m.counts.AbsentConfirmed++
	case EventConnected:
		m.counts.Connected++
	}

	return append(events, Event{At: now, Type: typ, From: from, To: to})
}
