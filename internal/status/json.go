package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/msx-joypad/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	State         string       `json:"state"`
	Connected     bool         `json:"connected"`
	Signals       []string     `json:"signals"`
	Axes          AxesJSON     `json:"axes"`
	Buttons       uint32       `json:"buttons"`
	Device        DeviceJSON   `json:"device"`
	Restarting    bool         `json:"restarting"`
	Cycles        uint64       `json:"cycles"`
	UpdateErrors  uint64       `json:"update_errors"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// AxesJSON holds the derived stick position.
type AxesJSON struct {
	LX int16 `json:"lx"`
	LY int16 `json:"ly"`
}

// DeviceJSON describes the bound input device.
type DeviceJSON struct {
	Name       string `json:"name"`
	NumAxes    int    `json:"num_axes"`
	NumButtons int    `json:"num_buttons"`
	HasHat     bool   `json:"has_hat"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	DisconnectSuspected int `json:"disconnect_suspected"`
	DisconnectConfirmed int `json:"disconnect_confirmed"`
	AbsentSuspected     int `json:"absent_suspected"`
	AbsentConfirmed     int `json:"absent_confirmed"`
	Connected           int `json:"connected"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Device      string `json:"device"`
	PollMs      int64  `json:"poll_ms"`
	DeadTimeMs  int64  `json:"dead_time_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Mode        string `json:"mode"`
	Reset       string `json:"reset"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// StateName returns the connection state name, or UNKNOWN before the
// first cycle.
func (s Snapshot) StateName() string {
	if s.State == nil {
		return "UNKNOWN"
	}
	return s.State.String()
}

func buildInner(snap Snapshot) StatusInner {
	_, connected := snap.State.(logic.ConnectedConnected)

	return StatusInner{
		State:     snap.StateName(),
		Connected: connected,
		Signals:   snap.Signals.Names(),
		Axes:      AxesJSON{LX: snap.LX, LY: snap.LY},
		Buttons:   snap.Buttons,
		Device: DeviceJSON{
			Name:       snap.Device.Name,
			NumAxes:    snap.Device.NumAxes,
			NumButtons: snap.Device.NumButtons,
			HasHat:     snap.Device.HasHat,
		},
		Restarting:    snap.Restarting,
		Cycles:        snap.Cycles,
		UpdateErrors:  snap.UpdateErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			DisconnectSuspected: snap.Counts.DisconnectSuspected,
			DisconnectConfirmed: snap.Counts.DisconnectConfirmed,
			AbsentSuspected:     snap.Counts.AbsentSuspected,
			AbsentConfirmed:     snap.Counts.AbsentConfirmed,
			Connected:           snap.Counts.Connected,
		},
		Config: ConfigJSON{
			Device:      snap.Config.Device,
			PollMs:      snap.Config.PollMs,
			DeadTimeMs:  snap.Config.DeadTimeMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Mode:        snap.Config.Mode,
			Reset:       snap.Config.Reset,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
