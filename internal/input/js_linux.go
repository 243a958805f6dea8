//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux joystick API ioctls (linux/joystick.h).
const (
	jsiocgaxes    = 0x80016a11
	jsiocgbuttons = 0x80016a12
	jsiocgname    = 0x80006a13 + (128 << 16)
	jsiocgaxmap   = 0x80406a32
)

const (
	jsEventButton = 0x01
	jsEventAxis   = 0x02
	jsEventInit   = 0x80
	jsEventSize   = 8

	absHat0X = 0x10
	absHat0Y = 0x11
	absCnt   = 64

	maxButtons = 32
)

func init() {
	Register("js", func(target string) (Device, error) {
		if target == "" {
			return nil, errors.New("empty device path")
		}
		return NewJSDevice(target), nil
	})
}

// JSDevice reads a gamepad through the Linux joystick API (/dev/input/jsN).
// While the node is missing it reports gameport readings and keeps trying
// to reopen it on every Update.
type JSDevice struct {
	path  string
	fd    int
	desc  Description
	state State
	hatX  int
	hatY  int
	buf   [64 * jsEventSize]byte
}

// NewJSDevice creates an unopened device for the given node.
func NewJSDevice(path string) *JSDevice {
	return &JSDevice{path: path, fd: -1, hatX: -1, hatY: -1}
}

// Init opens the device node. A missing node is not an error: the device
// reads as an unpopulated gameport until a stick appears.
func (d *JSDevice) Init() error {
	err := d.open()
	if isGone(err) {
		d.detach(unpopulatedAxis)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", d.path, err)
	}
	return nil
}

// Update drains pending joystick events.
func (d *JSDevice) Update() error {
	if d.fd < 0 {
		err := d.open()
		if isGone(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reopen %s: %w", d.path, err)
		}
	}

	for {
		n, err := unix.Read(d.fd, d.buf[:])
		switch {
		case errors.Is(err, unix.EAGAIN):
			return nil
		case errors.Is(err, unix.EINTR):
			continue
		case isGone(err) || (err == nil && n == 0):
			d.closeFD()
			d.detach(openAxis)
			return nil
		case err != nil:
			return fmt.Errorf("read %s: %w", d.path, err)
		}

		for off := 0; off+jsEventSize <= n; off += jsEventSize {
			d.apply(d.buf[off : off+jsEventSize])
		}
		if n < len(d.buf) {
			return nil
		}
	}
}

// State returns a copy of the last snapshot.
func (d *JSDevice) State() State {
	s := d.state
	s.Axes = append([]int16(nil), d.state.Axes...)
	return s
}

// Description returns the capabilities read at open time.
func (d *JSDevice) Description() Description {
	return d.desc
}

// Close releases the device node.
func (d *JSDevice) Close() error {
	return d.closeFD()
}

func (d *JSDevice) open() error {
	fd, err := openPersistent(d.path)
	if err != nil {
		return err
	}

	var axes, buttons uint8
	if err := ioctl(fd, jsiocgaxes, unsafe.Pointer(&axes)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("get axes: %w", err)
	}
	if err := ioctl(fd, jsiocgbuttons, unsafe.Pointer(&buttons)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("get buttons: %w", err)
	}
	name := make([]byte, 128)
	if err := ioctl(fd, jsiocgname, unsafe.Pointer(&name[0])); err != nil {
		copy(name, "unknown joystick")
	}
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	d.hatX, d.hatY = -1, -1
	var axmap [absCnt]uint8
	if err := ioctl(fd, jsiocgaxmap, unsafe.Pointer(&axmap)); err == nil {
		for i := 0; i < int(axes) && i < absCnt; i++ {
			switch axmap[i] {
			case absHat0X:
				d.hatX = i
			case absHat0Y:
				d.hatY = i
			}
		}
	}

	d.fd = fd
	d.desc = Description{
		Name:       string(name),
		NumAxes:    int(axes),
		NumButtons: int(buttons),
		HasHat:     d.hatX >= 0 && d.hatY >= 0,
	}
	d.state = State{Axes: make([]int16, axes)}
	for i := range d.state.Axes {
		d.state.Axes[i] = ScaleAxis(0)
	}
	return nil
}

func (d *JSDevice) closeFD() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

func (d *JSDevice) detach(axis int16) {
	d.hatX, d.hatY = -1, -1
	d.desc = absentDescription("no joystick on " + d.path)
	d.state = gameportState(axis)
}

// apply decodes one struct js_event: u32 time, s16 value, u8 type, u8 number.
func (d *JSDevice) apply(ev []byte) {
	value := int16(binary.LittleEndian.Uint16(ev[4:6]))
	typ := ev[6] &^ jsEventInit
	num := int(ev[7])

	switch typ {
	case jsEventAxis:
		if num < len(d.state.Axes) {
			d.state.Axes[num] = ScaleAxis(value)
		}
		switch num {
		case d.hatX:
			d.state.Hat &^= HatLeft | HatRight
			if value < 0 {
				d.state.Hat |= HatLeft
			} else if value > 0 {
				d.state.Hat |= HatRight
			}
		case d.hatY:
			d.state.Hat &^= HatUp | HatDown
			if value < 0 {
				d.state.Hat |= HatUp
			} else if value > 0 {
				d.state.Hat |= HatDown
			}
		}
	case jsEventButton:
		if num < maxButtons {
			bit := uint32(1) << num
			if value != 0 {
				d.state.Buttons |= bit
			} else {
				d.state.Buttons &^= bit
			}
		}
	}
}

func isGone(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENODEV)
}

// openPersistent retries briefly on EACCES: udev fixes up permissions
// just after a hotplug.
func openPersistent(path string) (int, error) {
	var err error
	for i := 0; i < 5; i++ {
		var fd int
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			return fd, nil
		}
		if !errors.Is(err, unix.EACCES) {
			return -1, err
		}
		time.Sleep(20 * time.Millisecond)
	}
	return -1, err
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
