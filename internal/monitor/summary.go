package monitor

// OverwatcherAlerts is the overwatcher section of the summary.
type OverwatcherAlerts struct {
	Idle bool `json:"idle"`
}

// AlertsSummary is the aggregated safety picture served to clients.
// Pointer fields are tri-state: nil means the owning check could not
// produce a verdict and marshals as an explicit null, never false.
type AlertsSummary struct {
	HumidityAlert *bool `json:"humidity_alert"`
	DewPointAlert *bool `json:"dew_point_alert"`
	WindAlert     *bool `json:"wind_alert"`

	Rain      *bool `json:"rain"`
	DoorAlert *bool `json:"door_alert"`

	CameraTemperatureAlert *bool           `json:"camera_temperature_alert"`
	CameraAlerts           map[string]bool `json:"camera_alerts"`

	O2Alert      *bool           `json:"o2_alert"`
	O2RoomAlerts map[string]bool `json:"o2_room_alerts"`

	// Heater channels are carried for wire compatibility; the lab heaters
	// report through a path that is not monitored yet.
	HeaterAlert        bool            `json:"heater_alert"`
	HeaterCameraAlerts map[string]bool `json:"heater_camera_alerts"`

	OverwatcherAlerts *OverwatcherAlerts `json:"overwatcher_alerts"`

	EngineeringOverride bool `json:"engineering_override"`
}

// NewSummary returns a summary with every verdict unknown.
func NewSummary() *AlertsSummary {
	return &AlertsSummary{
		HeaterCameraAlerts: map[string]bool{},
	}
}

// watchChannels lists the alert channels the watch loop publishes
// transitions for, in publication order.
var watchChannels = []struct {
	name string
	get  func(*AlertsSummary) *bool
}{
	{"wind", func(s *AlertsSummary) *bool { return s.WindAlert }},
	{"humidity", func(s *AlertsSummary) *bool { return s.HumidityAlert }},
	{"dew_point", func(s *AlertsSummary) *bool { return s.DewPointAlert }},
	{"rain", func(s *AlertsSummary) *bool { return s.Rain }},
	{"door", func(s *AlertsSummary) *bool { return s.DoorAlert }},
	{"o2", func(s *AlertsSummary) *bool { return s.O2Alert }},
	{"camera_temperature", func(s *AlertsSummary) *bool { return s.CameraTemperatureAlert }},
}

// AnyActive reports whether any alert channel is known to be raised.
func (s *AlertsSummary) AnyActive() bool {
	for _, ch := range watchChannels {
		if v := ch.get(s); v != nil && *v {
			return true
		}
	}
	return false
}
