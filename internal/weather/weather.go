// Package weather fetches observations from the LCO Vaisala weather feed.
// The real implementation talks to the dataservice HTTP API.
// The fake implementation allows testing without the feed.
package weather

import (
	"context"
	"math"
	"time"
)

// Row is one weather station observation. Fields the station did not report
// are nil.
type Row struct {
	Time             time.Time
	Temperature      *float64 // degC
	RelativeHumidity *float64 // percent
	WindSpeedAvg     *float64 // mph
	DewPoint         *float64 // degC, derived from temperature and humidity
}

// Service provides weather observations for one station.
type Service interface {
	// Fetch returns observations with times in [from, to], oldest first.
	Fetch(ctx context.Context, from, to time.Time) ([]Row, error)
}

// dewPoint approximates the dew point the way the LCO feed consumers do:
// temperature minus (100-RH)/5, rounded to two decimals.
func dewPoint(temperature, relativeHumidity float64) float64 {
	depression := math.Round((100-relativeHumidity)/5*100) / 100
	return temperature - depression
}
