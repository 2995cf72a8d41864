// Package tsdb reads spectrograph temperature history from TimescaleDB.
// The real implementation uses database/sql with the postgres driver.
// The fake implementation allows testing without a database.
package tsdb

import (
	"context"
	"time"

	"github.com/sweeney/enclosure-monitor/internal/alerts"
)

// Querier returns spectrograph temperature readings.
type Querier interface {
	// TempReadings returns CCD and LN2 readings with times in [from, to],
	// oldest first.
	TempReadings(ctx context.Context, from, to time.Time) ([]alerts.TempReading, error)
}
