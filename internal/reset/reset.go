// Package reset restarts the adapter from scratch.
// A Resetter never returns on real hardware: it either replaces the process
// or blocks until the watchdog fires.
package reset

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Resetter forces a full restart.
type Resetter interface {
	// Reset restarts the system. Real implementations do not return.
	Reset(reason string)
}

// Strategy names accepted by New.
const (
	StrategyWatchdog = "watchdog"
	StrategyReboot   = "reboot"
	StrategyExec     = "exec"
)

// DefaultWatchdog is the hardware watchdog device node.
const DefaultWatchdog = "/dev/watchdog"

// New returns the Resetter for a strategy name.
// Watchdog and reboot fall back to exec if they fail.
func New(strategy string) (Resetter, error) {
	switch strings.ToLower(strategy) {
	case StrategyWatchdog:
		return &Watchdog{Path: DefaultWatchdog, Fallback: &Exec{}}, nil
	case StrategyReboot:
		return &Reboot{Fallback: &Exec{}}, nil
	case StrategyExec:
		return &Exec{}, nil
	}
	return nil, fmt.Errorf("unknown reset strategy %q (want %s, %s or %s)",
		strategy, StrategyWatchdog, StrategyReboot, StrategyExec)
}

// hang blocks forever. It sleeps rather than selecting on nothing so the
// runtime never reports a deadlock while the watchdog counts down.
func hang() {
	for {
		time.Sleep(time.Hour)
	}
}

func fallback(next Resetter, reason string, err error) {
	log.Printf("reset: %v", err)
	if next != nil {
		next.Reset(reason)
	}
	hang()
}
