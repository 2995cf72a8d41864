package monitor

import "sync"

// OverlayStates are the channels the administrative surface can force.
// IsDay is carried for clients that script day/night behavior; it does not
// feed the alerts summary.
type OverlayStates struct {
	WindAlert     bool `json:"wind_alert"`
	HumidityAlert bool `json:"humidity_alert"`
	RainAlert     bool `json:"rain_alert"`
	DoorAlert     bool `json:"door_alert"`
	IsDay         bool `json:"is_day"`
}

// Overlay holds forced alert states behind an RWMutex. While enabled it
// replaces the corresponding summary fields after all real computation,
// so a forced state can override a check but never the other way around.
// Used during commissioning and closed-dome test nights.
type Overlay struct {
	mu      sync.RWMutex
	enabled bool
	states  OverlayStates
}

// NewOverlay returns a disabled overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Set replaces the overlay state.
func (o *Overlay) Set(enabled bool, states OverlayStates) {
	o.mu.Lock()
	o.enabled = enabled
	o.states = states
	o.mu.Unlock()
}

// Snapshot returns the current overlay state.
func (o *Overlay) Snapshot() (bool, OverlayStates) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.enabled, o.states
}

// Apply forces the overridable summary fields when the overlay is enabled.
func (o *Overlay) Apply(s *AlertsSummary) {
	enabled, st := o.Snapshot()
	if !enabled {
		return
	}

	wind := st.WindAlert
	humidity := st.HumidityAlert
	rain := st.RainAlert
	door := st.DoorAlert

	s.WindAlert = &wind
	s.HumidityAlert = &humidity
	s.Rain = &rain
	s.DoorAlert = &door
}
