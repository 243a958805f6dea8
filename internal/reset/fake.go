package reset

// FakeResetter records reset requests and returns, for tests.
type FakeResetter struct {
	// Reasons contains the reason of every Reset call.
	Reasons []string

	// OnReset, if set, is called before the request is recorded.
	OnReset func(reason string)
}

// Reset records the request.
func (f *FakeResetter) Reset(reason string) {
	if f.OnReset != nil {
		f.OnReset(reason)
	}
	f.Reasons = append(f.Reasons, reason)
}

// Calls returns how many times Reset was called.
func (f *FakeResetter) Calls() int {
	return len(f.Reasons)
}
