// Package actor issues status requests to the site actors over MQTT
// request/reply. Replies are duck-typed JSON on the wire; this package
// validates them once at the edge into explicit structs so nothing downstream
// touches raw maps.
// The fake implementation allows testing without a broker.
package actor

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client talks to the enclosure controller and the overwatcher.
type Client interface {
	// EnclosureStatus fetches the current enclosure PLC state.
	EnclosureStatus(ctx context.Context) (*EnclosureStatus, error)

	// OverwatcherStatus fetches the automated-operations controller state.
	OverwatcherStatus(ctx context.Context) (*OverwatcherStatus, error)

	// Close disconnects from the broker.
	Close() error
}

// EngineeringMode mirrors the controller's bypass block.
type EngineeringMode struct {
	Enabled           bool `json:"enabled"`
	PLCSoftwareBypass bool `json:"plc_software_bypass"`
	PLCHardwareBypass bool `json:"plc_hardware_bypass"`
}

// EnclosureStatus is the validated subset of the enclosure controller's
// status reply.
type EnclosureStatus struct {
	SafetyLabels   []string
	O2Spectrograph float64 // percent, spectrograph room
	O2Utilities    float64 // percent, utilities room

	// RainSensorAlarm is nil when the controller did not report the register.
	RainSensorAlarm *bool

	EngineeringMode EngineeringMode
}

// DoorAlert reports whether the enclosure door is open or not confirmed
// locked.
func (s *EnclosureStatus) DoorAlert() bool {
	open := false
	locked := false
	for _, label := range s.SafetyLabels {
		switch label {
		case "DOOR_OPEN":
			open = true
		case "DOOR_LOCKED":
			locked = true
		}
	}
	return open || !locked
}

// Override reports whether engineering mode or either PLC bypass suppresses
// the safety automation.
func (s *EnclosureStatus) Override() bool {
	return s.EngineeringMode.Enabled ||
		s.EngineeringMode.PLCSoftwareBypass ||
		s.EngineeringMode.PLCHardwareBypass
}

// OverwatcherStatus is the validated subset of the overwatcher status reply.
type OverwatcherStatus struct {
	StatusLabels []string

	// Alerts is nil when the reply carried no alerts field.
	Alerts []string
}

// Idle reports whether the overwatcher flags the system as idle.
func (s *OverwatcherStatus) Idle() bool {
	for _, a := range s.Alerts {
		if a == "IDLE" {
			return true
		}
	}
	return false
}

type enclosureReply struct {
	Error                 string    `json:"error"`
	SafetyStatusLabels    *[]string `json:"safety_status_labels"`
	O2PercentSpectrograph *float64  `json:"o2_percent_spectrograph"`
	O2PercentUtilities    *float64  `json:"o2_percent_utilities"`
	Registers             struct {
		RainSensorAlarm *bool `json:"rain_sensor_alarm"`
	} `json:"registers"`
	EngineeringMode EngineeringMode `json:"engineering_mode"`
}

// decodeEnclosureReply validates the reply payload. Safety labels and both
// O2 readings are required; a missing rain register stays nil.
func decodeEnclosureReply(payload []byte) (*EnclosureStatus, error) {
	var reply enclosureReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return nil, fmt.Errorf("decode enclosure reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("enclosure controller: %s", reply.Error)
	}
	if reply.SafetyStatusLabels == nil {
		return nil, fmt.Errorf("enclosure reply missing safety_status_labels")
	}
	if reply.O2PercentSpectrograph == nil {
		return nil, fmt.Errorf("enclosure reply missing o2_percent_spectrograph")
	}
	if reply.O2PercentUtilities == nil {
		return nil, fmt.Errorf("enclosure reply missing o2_percent_utilities")
	}

	return &EnclosureStatus{
		SafetyLabels:    *reply.SafetyStatusLabels,
		O2Spectrograph:  *reply.O2PercentSpectrograph,
		O2Utilities:     *reply.O2PercentUtilities,
		RainSensorAlarm: reply.Registers.RainSensorAlarm,
		EngineeringMode: reply.EngineeringMode,
	}, nil
}

type overwatcherReply struct {
	Error  string `json:"error"`
	Status *struct {
		StatusLabels []string `json:"status_labels"`
		Alerts       []string `json:"alerts"`
	} `json:"status"`
}

// decodeOverwatcherReply validates the reply payload. The status object is
// required; a missing alerts list stays nil.
func decodeOverwatcherReply(payload []byte) (*OverwatcherStatus, error) {
	var reply overwatcherReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return nil, fmt.Errorf("decode overwatcher reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("overwatcher: %s", reply.Error)
	}
	if reply.Status == nil {
		return nil, fmt.Errorf("overwatcher reply missing status")
	}

	return &OverwatcherStatus{
		StatusLabels: reply.Status.StatusLabels,
		Alerts:       reply.Status.Alerts,
	}, nil
}
