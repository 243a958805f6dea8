// Package status provides a thread-safe view of the adapter for the web
// page and MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/msx-joypad/internal/input"
	"github.com/sweeney/msx-joypad/internal/logic"
)

// NetworkInfo contains network state as reported by the host.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Device      string
	PollMs      int64
	DeadTimeMs  int64
	HeartbeatMs int64
	Mode        string
	Reset       string
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of adapter state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	State         logic.ConnState
	Signals       logic.Signals
	LX            int16
	LY            int16
	Buttons       uint32
	Device        input.Description
	Counts        logic.EventCounts
	Cycles        uint64
	UpdateErrors  uint64
	Restarting    bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Reading is the per-cycle input to Update.
type Reading struct {
	State   logic.ConnState
	Signals logic.Signals
	LX      int16
	LY      int16
	Buttons uint32
	Device  input.Description
	Counts  logic.EventCounts
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.ConnectedConnected{},
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records one successful poll cycle.
func (t *Tracker) Update(r Reading) {
	t.mu.Lock()
	t.snap.State = r.State
	t.snap.Signals = r.Signals
	t.snap.LX = r.LX
	t.snap.LY = r.LY
	t.snap.Buttons = r.Buttons
	t.snap.Device = r.Device
	t.snap.Counts = r.Counts
	t.snap.Cycles++
	t.mu.Unlock()
}

// RecordError counts a failed poll cycle.
func (t *Tracker) RecordError() {
	t.mu.Lock()
	t.snap.UpdateErrors++
	t.mu.Unlock()
}

// SetDevice sets the bound device's description.
func (t *Tracker) SetDevice(desc input.Description) {
	t.mu.Lock()
	t.snap.Device = desc
	t.mu.Unlock()
}

// SetRestarting marks the adapter as handing off to the reset primitive.
func (t *Tracker) SetRestarting() {
	t.mu.Lock()
	t.snap.Restarting = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
