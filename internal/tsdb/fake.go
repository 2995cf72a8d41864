package tsdb

import (
	"context"
	"sync"
	"time"

	"github.com/sweeney/enclosure-monitor/internal/alerts"
)

// FakeQuerier is a test double that returns scripted readings. Safe for
// concurrent use.
type FakeQuerier struct {
	mu sync.Mutex

	// Readings are returned by every TempReadings call.
	Readings []alerts.TempReading

	// Err, if set, is returned by TempReadings.
	Err error

	// LastFrom and LastTo record the most recent requested range.
	LastFrom time.Time
	LastTo   time.Time
}

// TempReadings returns the scripted readings and records the range.
func (f *FakeQuerier) TempReadings(_ context.Context, from, to time.Time) ([]alerts.TempReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastFrom = from
	f.LastTo = to
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Readings, nil
}
