// Package mqtt publishes clock events to an MQTT broker, with a fake for
// testing and a queue that keeps the polling loop off the network.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/rs/xid"

	"github.com/sweeney/wuclock/internal/logic"
)

// Topic is the MQTT topic for clock events.
const Topic = "wuclock/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "wuclock/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a clock event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the clock event details.
type ClockPayload struct {
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Event     string       `json:"event"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Time      string       `json:"time"`
	Alarm     AlarmPayload `json:"alarm"`
}

// AlarmPayload describes the alarm after the event.
type AlarmPayload struct {
	Time  string `json:"time"`
	Kind  string `json:"kind"`
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a clock event. Every payload
// carries a fresh id so consumers can drop replays.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Clock: ClockPayload{
			ID:        xid.New().String(),
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			From:      string(event.From),
			To:        string(event.To),
			Time:      event.Clock,
			Alarm: AlarmPayload{
				Time:  event.Alarm,
				Kind:  event.AlarmKind,
				State: event.AlarmState,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
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
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
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
