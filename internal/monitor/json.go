package monitor

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Timestamp     string         `json:"timestamp"`
	StartTime     string         `json:"start_time"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"transition_counts"`
	Alerts        *AlertsSummary `json:"alerts"`
	Config        ConfigJSON     `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Raised  int `json:"raised"`
	Cleared int `json:"cleared"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	IntervalS  int64  `json:"interval_s"`
	HeartbeatS int64  `json:"heartbeat_s"`
	Broker     string `json:"broker"`
	HTTPListen string `json:"http_listen"`
	Station    string `json:"station"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Raised:  snap.Counts.Raised,
			Cleared: snap.Counts.Cleared,
		},
		Alerts: snap.Summary,
		Config: ConfigJSON{
			IntervalS:  int64(snap.Config.Interval.Seconds()),
			HeartbeatS: int64(snap.Config.Heartbeat.Seconds()),
			Broker:     snap.Config.Broker,
			HTTPListen: snap.Config.Listen,
			Station:    snap.Config.Station,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
