package reset

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		strategy string
		check    func(Resetter) bool
	}{
		{"watchdog", func(r Resetter) bool {
			w, ok := r.(*Watchdog)
			return ok && w.Path == DefaultWatchdog && w.Fallback != nil
		}},
		{"reboot", func(r Resetter) bool {
			rb, ok := r.(*Reboot)
			return ok && rb.Fallback != nil
		}},
		{"EXEC", func(r Resetter) bool {
			_, ok := r.(*Exec)
			return ok
		}},
	}

	for _, tt := range tests {
		r, err := New(tt.strategy)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.strategy, err)
			continue
		}
		if !tt.check(r) {
			t.Errorf("%s: unexpected resetter %T", tt.strategy, r)
		}
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("power-cycle"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestFakeResetter(t *testing.T) {
	f := &FakeResetter{}
	f.Reset("joystick reconnected")
	if f.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", f.Calls())
	}
	if f.Reasons[0] != "joystick reconnected" {
		t.Errorf("unexpected reason %q", f.Reasons[0])
	}
}

func TestFakeResetterOnReset(t *testing.T) {
	f := &FakeResetter{}
	var seen []string
	f.OnReset = func(reason string) {
		seen = append(seen, reason)
		if f.Calls() != 0 {
			t.Error("OnReset must run before the call is recorded")
		}
	}
	f.Reset("joystick reconnected")
	if len(seen) != 1 || seen[0] != "joystick reconnected" {
		t.Errorf("OnReset saw %v", seen)
	}
}
