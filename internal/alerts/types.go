// Package alerts contains pure evaluation logic for enclosure safety alerts.
// This package has NO external dependencies (no HTTP, SQL, MQTT, or time.Now).
// Time is always injectable via time.Time parameters.
package alerts

import (
	"errors"
	"fmt"
	"time"
)

// Verdict is the outcome of a threshold evaluation.
type Verdict string

const (
	// VerdictUnknown means there was not enough data to decide.
	VerdictUnknown Verdict = "UNKNOWN"
	VerdictSafe    Verdict = "SAFE"
	VerdictUnsafe  Verdict = "UNSAFE"
)

// Alert converts a verdict to a nullable alert flag: true when unsafe,
// false when safe, nil when unknown.
func (v Verdict) Alert() *bool {
	switch v {
	case VerdictSafe:
		b := false
		return &b
	case VerdictUnsafe:
		b := true
		return &b
	default:
		return nil
	}
}

// Sample is a single sensor reading. Immutable once recorded.
type Sample struct {
	Time  time.Time
	Value float64
}

// ThresholdConfig describes a two-level hysteresis threshold applied to the
// rolling mean of a measurement channel.
type ThresholdConfig struct {
	// Threshold is the level at or above which the channel trips.
	Threshold float64
	// ReopenValue is the level below which every recent value must stay for
	// the channel to recover. Must not exceed Threshold.
	ReopenValue float64
	// EvaluationWindow is how far back Evaluate looks for recent values.
	EvaluationWindow time.Duration
	// RollingMeanWindow smooths raw samples before evaluation.
	RollingMeanWindow time.Duration
}

// Validate reports whether the threshold configuration is usable. Called once
// at startup; Evaluate assumes a valid config.
func (c ThresholdConfig) Validate() error {
	if c.ReopenValue > c.Threshold {
		return fmt.Errorf("reopen value %v above threshold %v", c.ReopenValue, c.Threshold)
	}
	if c.EvaluationWindow <= 0 {
		return errors.New("evaluation window must be positive")
	}
	if c.RollingMeanWindow <= 0 {
		return errors.New("rolling mean window must be positive")
	}
	return nil
}
