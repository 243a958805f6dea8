//go:build linux

package reset

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// watchdogTimeout is the shortest timeout most drivers accept, in seconds.
const watchdogTimeout = 1

// Watchdog arms the hardware watchdog and never feeds it.
type Watchdog struct {
	Path     string
	Fallback Resetter
}

// Reset opens the watchdog, shortens its timeout and waits for it to fire.
func (w *Watchdog) Reset(reason string) {
	log.Printf("reset: %s, arming watchdog %s", reason, w.Path)

	fd, err := unix.Open(w.Path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		fallback(w.Fallback, reason, fmt.Errorf("open watchdog: %w", err))
		return
	}
	if err := unix.IoctlSetPointerInt(fd, unix.WDIOC_SETTIMEOUT, watchdogTimeout); err != nil {
		// Keep the fd: the watchdog is already running with its default timeout.
		log.Printf("reset: set watchdog timeout: %v", err)
	}
	hang()
}

// Reboot restarts the whole machine through reboot(2).
type Reboot struct {
	Fallback Resetter
}

// Reset syncs filesystems and reboots.
func (r *Reboot) Reset(reason string) {
	log.Printf("reset: %s, rebooting", reason)
	unix.Sync()
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		fallback(r.Fallback, reason, fmt.Errorf("reboot: %w", err))
		return
	}
	hang()
}

// Exec replaces the process with a fresh copy of itself.
type Exec struct{}

// Reset re-executes /proc/self/exe with the original arguments.
func (e *Exec) Reset(reason string) {
	log.Printf("reset: %s, re-executing", reason)
	if err := unix.Exec("/proc/self/exe", os.Args, os.Environ()); err != nil {
		log.Printf("reset: exec: %v", err)
	}
	hang()
}
