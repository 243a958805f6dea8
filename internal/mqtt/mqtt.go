// Package mqtt publishes adapter and lifecycle events to a broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/msx-joypad/internal/logic"
)

// Topic is the MQTT topic for joystick connection events.
const Topic = "retro/msx-joypad/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "retro/msx-joypad/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a connection event to the broker.
	// Errors are reported but must not stop the poll loop.
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Flush waits up to timeout for messages already handed to the broker
	// to be acknowledged. It reports false if anything is still in flight
	// or held offline when it returns.
	Flush(timeout time.Duration) bool

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event is a connection state change stamped with wall-clock time.
// The state machine only knows the wrapping millisecond counter.
type Event struct {
	Timestamp time.Time
	Type      logic.EventType
	From      string
	State     string
}

// NewEvent stamps a machine event with ts.
func NewEvent(ts time.Time, e logic.Event) Event {
	ev := Event{Timestamp: ts, Type: e.Type}
	if e.From != nil {
		ev.From = e.From.String()
	}
	if e.To != nil {
		ev.State = e.To.String()
	}
	return ev
}

// SystemEvent represents a system lifecycle event (startup, shutdown, heartbeat, restart).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // STARTUP, SHUTDOWN, HEARTBEAT, RESTART, OFFLINE
	Reason     string // e.g. SIGTERM, or why a restart was requested
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload is the MQTT message payload for connection events.
type Payload struct {
	Joypad JoypadPayload `json:"joypad"`
}

// JoypadPayload contains the connection event details.
type JoypadPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	From      string `json:"from,omitempty"`
}

// FormatPayload creates the JSON payload for a connection event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Joypad: JoypadPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     event.State,
			From:      event.From,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the payload for events that don't carry a status
// snapshot, such as the last will.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) error             { return nil }
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }
func (NopPublisher) Flush(time.Duration) bool        { return true }
func (NopPublisher) Close() error                    { return nil }
func (NopPublisher) IsConnected() bool               { return false }
