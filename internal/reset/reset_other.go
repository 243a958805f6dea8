//go:build !linux

package reset

import (
	"errors"
	"log"
)

var errUnsupported = errors.New("reset: not supported on this platform (requires Linux)")

// Watchdog is not available on non-Linux platforms.
type Watchdog struct {
	Path     string
	Fallback Resetter
}

// Reset logs and blocks forever on non-Linux platforms.
func (w *Watchdog) Reset(reason string) {
	fallback(w.Fallback, reason, errUnsupported)
}

// Reboot is not available on non-Linux platforms.
type Reboot struct {
	Fallback Resetter
}

// Reset logs and blocks forever on non-Linux platforms.
func (r *Reboot) Reset(reason string) {
	fallback(r.Fallback, reason, errUnsupported)
}

// Exec is not available on non-Linux platforms.
type Exec struct{}

// Reset logs and blocks forever on non-Linux platforms.
func (e *Exec) Reset(reason string) {
	log.Printf("reset: %s: %v", reason, errUnsupported)
	hang()
}
