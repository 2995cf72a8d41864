package monitor

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := TrackerConfig{
		Interval:  time.Minute,
		Heartbeat: 15 * time.Minute,
		Broker:    "tcp://localhost:1883",
		Listen:    ":8080",
		Station:   "DuPont",
	}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Interval != time.Minute {
		t.Errorf("Config.Interval: got %v, want 1m", snap.Config.Interval)
	}
	if snap.Config.Listen != ":8080" {
		t.Errorf("Config.Listen: got %q, want %q", snap.Config.Listen, ":8080")
	}
	if snap.Summary != nil {
		t.Error("expected nil Summary initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), TrackerConfig{})

	s := NewSummary()
	s.WindAlert = boolPtr(true)
	at := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	tr.Update(s, at)

	snap := tr.Snapshot()
	if snap.Summary == nil {
		t.Fatal("expected Summary after Update")
	}
	if snap.Summary.WindAlert == nil || !*snap.Summary.WindAlert {
		t.Error("summary wind alert lost")
	}
	if !snap.SummaryTime.Equal(at) {
		t.Errorf("SummaryTime: got %v, want %v", snap.SummaryTime, at)
	}
}

func TestTrackerRecordChanges(t *testing.T) {
	tr := NewTracker(time.Now(), TrackerConfig{})

	tr.RecordChanges([]Change{
		{Channel: "wind", Raised: true},
		{Channel: "rain", Raised: true},
		{Channel: "door", Raised: false},
	})
	tr.RecordChanges([]Change{
		{Channel: "wind", Raised: false},
	})

	snap := tr.Snapshot()
	if snap.Counts.Raised != 2 {
		t.Errorf("Raised: got %d, want 2", snap.Counts.Raised)
	}
	if snap.Counts.Cleared != 2 {
		t.Errorf("Cleared: got %d, want 2", snap.Counts.Cleared)
	}
}

func TestTrackerSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), TrackerConfig{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), TrackerConfig{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), TrackerConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			tr.Update(NewSummary(), time.Now())
		}()
		go func() {
			defer wg.Done()
			tr.RecordChanges([]Change{{Channel: "wind", Raised: true}})
		}()
		go func() {
			defer wg.Done()
			tr.Snapshot()
		}()
	}
	wg.Wait()

	if tr.Snapshot().Counts.Raised != 10 {
		t.Errorf("Raised: got %d, want 10", tr.Snapshot().Counts.Raised)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSummary()
	s.WindAlert = boolPtr(true)
	snap := Snapshot{
		Summary:       s,
		Counts:        Counts{Raised: 5, Cleared: 2},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config: TrackerConfig{
			Interval:  time.Minute,
			Heartbeat: 15 * time.Minute,
			Broker:    "tcp://localhost:1883",
			Listen:    ":8080",
			Station:   "DuPont",
		},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if parsed.Status.Counts.Raised != 5 {
		t.Errorf("Counts.Raised: got %d, want 5", parsed.Status.Counts.Raised)
	}
	if parsed.Status.Alerts == nil || parsed.Status.Alerts.WindAlert == nil || !*parsed.Status.Alerts.WindAlert {
		t.Error("alerts summary lost in JSON")
	}
	if parsed.Status.Config.IntervalS != 60 {
		t.Errorf("Config.IntervalS: got %d, want 60", parsed.Status.Config.IntervalS)
	}
	if parsed.Status.Config.Station != "DuPont" {
		t.Errorf("Config.Station: got %q, want DuPont", parsed.Status.Config.Station)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Summary:   NewSummary(),
		Counts:    Counts{Raised: 3},
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
		Config:    TrackerConfig{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if parsed.Status.Counts.Raised != 3 {
		t.Errorf("Counts.Raised: got %d, want 3", parsed.Status.Counts.Raised)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
		Config:    TrackerConfig{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventNullAlertsBeforeFirstPoll(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	status := raw["status"].(map[string]interface{})
	if status["alerts"] != nil {
		t.Errorf("alerts should be null before the first poll, got %v", status["alerts"])
	}
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
}
