package alerts

import (
	"testing"
	"time"
)

const (
	testCCDThreshold = -85.0
	testLN2Threshold = -175.0
)

func TestCameraTempAlertsNoReadings(t *testing.T) {
	got := CameraTempAlerts(nil, testCCDThreshold, testLN2Threshold)

	if len(got) != len(Cameras)*len(Sensors) {
		t.Fatalf("expected %d pairs, got %d", len(Cameras)*len(Sensors), len(got))
	}
	for k, v := range got {
		if v {
			t.Errorf("pair %s: expected false with no readings", k)
		}
	}
}

func TestCameraTempAlertsMeanAboveThreshold(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	readings := []TempReading{
		{Time: base, Camera: "r1", Sensor: "ccd", Temperature: -84},
		{Time: base.Add(time.Minute), Camera: "r1", Sensor: "ccd", Temperature: -80},
		{Time: base, Camera: "b2", Sensor: "ccd", Temperature: -90},
		{Time: base, Camera: "z3", Sensor: "ln2", Temperature: -170},
	}

	got := CameraTempAlerts(readings, testCCDThreshold, testLN2Threshold)

	if !got["r1_ccd"] {
		t.Error("r1_ccd: mean -82 should exceed -85")
	}
	if got["b2_ccd"] {
		t.Error("b2_ccd: mean -90 should be cold enough")
	}
	if !got["z3_ln2"] {
		t.Error("z3_ln2: mean -170 should exceed -175")
	}
	if got["b2_ln2"] {
		t.Error("b2_ln2: no readings should report false")
	}
}

func TestCameraTempAlertsExactThresholdIsSafe(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	readings := []TempReading{
		{Time: base, Camera: "r1", Sensor: "ccd", Temperature: -90},
		{Time: base.Add(time.Minute), Camera: "r1", Sensor: "ccd", Temperature: -80},
	}

	// Mean is exactly -85; the alert requires strictly warmer.
	got := CameraTempAlerts(readings, testCCDThreshold, testLN2Threshold)
	if got["r1_ccd"] {
		t.Error("r1_ccd: mean exactly at threshold should not alert")
	}
}

func TestCameraTempAlertsIgnoresUnknownCameras(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	readings := []TempReading{
		{Time: base, Camera: "x9", Sensor: "ccd", Temperature: 20},
	}

	got := CameraTempAlerts(readings, testCCDThreshold, testLN2Threshold)
	if _, ok := got["x9_ccd"]; ok {
		t.Error("unknown camera should not appear in the result")
	}
	if len(got) != len(Cameras)*len(Sensors) {
		t.Errorf("expected %d pairs, got %d", len(Cameras)*len(Sensors), len(got))
	}
}
