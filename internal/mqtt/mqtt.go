// Package mqtt publishes alert transitions and system lifecycle events with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Transition says whether an alert channel went up or down.
type Transition string

const (
	TransitionRaised  Transition = "RAISED"
	TransitionCleared Transition = "CLEARED"
)

// AlertEvent is one alert channel transition to be published.
type AlertEvent struct {
	Timestamp time.Time
	Channel   string // wind, humidity, dew_point, rain, door, o2, camera_temperature
	State     Transition
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishAlert sends an alert transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishAlert(event AlertEvent) error

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

// AlertPayload represents the MQTT message payload for alert transitions.
type AlertPayload struct {
	Alert AlertPayloadInner `json:"alert"`
}

// AlertPayloadInner contains the alert transition details.
type AlertPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel"`
	State     string `json:"state"`
}

// FormatAlertPayload creates the JSON payload for an alert transition.
func FormatAlertPayload(event AlertEvent) ([]byte, error) {
	payload := AlertPayload{
		Alert: AlertPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Channel:   event.Channel,
			State:     string(event.State),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
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
