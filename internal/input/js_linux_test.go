//go:build linux

package input

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func jsEvent(value int16, typ, num uint8) []byte {
	ev := make([]byte, jsEventSize)
	binary.LittleEndian.PutUint32(ev[0:4], 1234)
	binary.LittleEndian.PutUint16(ev[4:6], uint16(value))
	ev[6] = typ
	ev[7] = num
	return ev
}

func openedJSDevice(axes int) *JSDevice {
	d := NewJSDevice("/dev/input/js-test")
	d.desc = Description{Name: "test", NumAxes: axes, NumButtons: 4}
	d.state = State{Axes: make([]int16, axes)}
	return d
}

func TestJSApplyAxisAndButtons(t *testing.T) {
	d := openedJSDevice(2)

	d.apply(jsEvent(-32767, jsEventAxis|jsEventInit, 0))
	d.apply(jsEvent(32767, jsEventAxis, 1))
	d.apply(jsEvent(1, jsEventButton, 2))
	d.apply(jsEvent(1, jsEventButton|jsEventInit, 0))

	s := d.State()
	if s.Axes[0] != 0 || s.Axes[1] != 1022 {
		t.Errorf("axes: got %v, want [0 1022]", s.Axes)
	}
	if s.Buttons != 0x05 {
		t.Errorf("buttons: got %#x, want 0x5", s.Buttons)
	}

	d.apply(jsEvent(0, jsEventButton, 2))
	if d.State().Buttons != 0x01 {
		t.Errorf("after release: got %#x, want 0x1", d.State().Buttons)
	}
}

func TestJSApplyIgnoresOutOfRange(t *testing.T) {
	d := openedJSDevice(2)

	d.apply(jsEvent(100, jsEventAxis, 5))
	d.apply(jsEvent(1, jsEventButton, 40))

	s := d.State()
	if s.Buttons != 0 {
		t.Errorf("expected no buttons, got %#x", s.Buttons)
	}
	if len(s.Axes) != 2 {
		t.Errorf("expected 2 axes, got %d", len(s.Axes))
	}
}

func TestJSApplyHat(t *testing.T) {
	d := openedJSDevice(8)
	d.hatX, d.hatY = 6, 7

	d.apply(jsEvent(-32767, jsEventAxis, 6))
	d.apply(jsEvent(32767, jsEventAxis, 7))
	if got := d.State().Hat; got != HatLeft|HatDown {
		t.Errorf("hat: got %#x, want left|down", got)
	}

	d.apply(jsEvent(0, jsEventAxis, 6))
	if got := d.State().Hat; got != HatDown {
		t.Errorf("hat: got %#x, want down", got)
	}
}

func TestJSStateIsCopy(t *testing.T) {
	d := openedJSDevice(2)
	s := d.State()
	s.Axes[0] = 999
	if d.State().Axes[0] == 999 {
		t.Error("State must not alias internal axes")
	}
}

func TestJSInitMissingNodeReadsUnpopulated(t *testing.T) {
	d := NewJSDevice(filepath.Join(t.TempDir(), "js0"))

	if err := d.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Update(); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}

	s := d.State()
	if len(s.Axes) != 2 || s.Axes[0] != 511 || s.Axes[1] != 511 {
		t.Errorf("expected unpopulated gameport reading, got %v", s.Axes)
	}
	if d.Description().NumAxes != 2 {
		t.Errorf("expected 2 axes, got %d", d.Description().NumAxes)
	}
}

func TestJSInitNotAJoystick(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewJSDevice(path)
	if err := d.Init(); err == nil {
		d.Close()
		t.Fatal("expected error for a regular file")
	}
}

func TestJSDetachOpen(t *testing.T) {
	d := openedJSDevice(4)
	d.detach(openAxis)

	s := d.State()
	if len(s.Axes) != 2 || s.Axes[0] != 1023 || s.Axes[1] != 1023 {
		t.Errorf("expected open gameport reading, got %v", s.Axes)
	}
	if s.Buttons != 0 {
		t.Errorf("expected no buttons, got %#x", s.Buttons)
	}
	if d.Description().HasHat {
		t.Error("expected no hat when detached")
	}
}
