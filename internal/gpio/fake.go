package gpio

// FakePort is a test double that records register writes.
type FakePort struct {
	// Writes contains every register pair written, in order.
	Writes []Registers

	// WriteError, if set, will be returned by Write().
	WriteError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakePort creates an empty FakePort.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// Write records the register pair.
func (f *FakePort) Write(regs Registers) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, regs)
	return nil
}

// Last returns the most recent write.
func (f *FakePort) Last() (Registers, bool) {
	if len(f.Writes) == 0 {
		return Registers{}, false
	}
	return f.Writes[len(f.Writes)-1], true
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}

// FakeIndicator is a test double for the status LED.
type FakeIndicator struct {
	// On is the current LED state.
	On bool

	// History records every Set call.
	History []bool

	// SetError, if set, will be returned by Set().
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// Set records the LED state.
func (f *FakeIndicator) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.On = on
	f.History = append(f.History, on)
	return nil
}

// Close marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.Closed = true
	return nil
}

// NopIndicator is used when no LED is wired.
type NopIndicator struct{}

func (NopIndicator) Set(bool) error { return nil }
func (NopIndicator) Close() error   { return nil }
