package adapter

import (
	"strings"
	"testing"

	"github.com/sweeney/msx-joypad/internal/input"
)

func TestTracerLogsChangesOnly(t *testing.T) {
	buf := captureLog(t)
	h := newHarness(t, []input.State{
		{Axes: []int16{100, 200}, Buttons: 0},
		{Axes: []int16{100, 200}, Buttons: 5},
		{Axes: []int16{100, 200}, Buttons: 5},
	}, WithDiagnostics())
	buf.Reset()

	h.update(t, 10)
	h.update(t, 10)
	h.update(t, 10)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 trace lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "axes[0] = 100,axes[1] = 200,") {
			t.Errorf("line %d: unexpected axes: %q", i, line)
		}
	}
	if strings.Contains(lines[0], "buttons") {
		t.Errorf("first line must not report buttons: %q", lines[0])
	}
	if !strings.Contains(lines[1], "buttons = 5") {
		t.Errorf("second line must report the change: %q", lines[1])
	}
	if strings.Contains(lines[2], "buttons") {
		t.Errorf("third line must not repeat buttons: %q", lines[2])
	}
}

func TestTracerHat(t *testing.T) {
	buf := captureLog(t)
	tr := &tracer{}
	desc := input.Description{NumAxes: 0, HasHat: true}

	tr.trace(desc, input.State{Hat: 0})
	tr.trace(desc, input.State{Hat: input.HatUp})

	if !strings.Contains(buf.String(), "hat = 1,") {
		t.Errorf("expected hat change, got %q", buf.String())
	}
}
