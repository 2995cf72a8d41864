package monitor

import (
	"sync"
	"time"
)

// TrackerConfig contains daemon configuration for display and heartbeats.
type TrackerConfig struct {
	Interval  time.Duration
	Heartbeat time.Duration
	Broker    string
	Listen    string
	Station   string
}

// Counts tallies published alert transitions since startup.
type Counts struct {
	Raised  int
	Cleared int
}

// Snapshot is a point-in-time view of daemon state. It is a value type,
// safe to use after the lock is released.
type Snapshot struct {
	Summary       *AlertsSummary
	SummaryTime   time.Time
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        TrackerConfig
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex. It is read by HTTP
// handlers and the heartbeat publisher.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg TrackerConfig) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update stores the latest summary. Called from the watch loop on every tick.
func (t *Tracker) Update(summary *AlertsSummary, at time.Time) {
	t.mu.Lock()
	t.snap.Summary = summary
	t.snap.SummaryTime = at
	t.mu.Unlock()
}

// RecordChanges tallies published transitions.
func (t *Tracker) RecordChanges(changes []Change) {
	t.mu.Lock()
	for _, c := range changes {
		if c.Raised {
			t.snap.Counts.Raised++
		} else {
			t.snap.Counts.Cleared++
		}
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
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
