package alerts

import "time"

// Cameras lists every spectrograph camera in wire order.
var Cameras = []string{"r1", "b1", "z1", "r2", "b2", "z2", "r3", "b3", "z3"}

// Sensors lists the monitored temperature sensors per camera.
var Sensors = []string{"ccd", "ln2"}

// TempReading is one spectrograph temperature measurement.
type TempReading struct {
	Time        time.Time
	Camera      string // r1..z3
	Sensor      string // ccd or ln2
	Temperature float64
}

// CameraTempAlerts reduces raw readings to one flag per camera/sensor pair,
// keyed "<camera>_<sensor>". The alert trips when the mean of the pair's
// readings exceeds the threshold for that sensor type. A pair with no
// readings reports false, not unknown: an idle cryostat is a normal state.
func CameraTempAlerts(readings []TempReading, ccdThreshold, ln2Threshold float64) map[string]bool {
	type acc struct {
		sum float64
		n   int
	}
	byPair := make(map[string]acc)
	for _, r := range readings {
		k := r.Camera + "_" + r.Sensor
		a := byPair[k]
		a.sum += r.Temperature
		a.n++
		byPair[k] = a
	}

	out := make(map[string]bool, len(Cameras)*len(Sensors))
	for _, camera := range Cameras {
		for _, sensor := range Sensors {
			k := camera + "_" + sensor
			a, ok := byPair[k]
			if !ok {
				out[k] = false
				continue
			}
			threshold := ccdThreshold
			if sensor == "ln2" {
				threshold = ln2Threshold
			}
			out[k] = a.sum/float64(a.n) > threshold
		}
	}
	return out
}
