package weather

import (
	"context"
	"sync"
	"time"
)

// FakeService is a test double that returns scripted observations. Safe for
// concurrent use: summaries may be requested from several goroutines.
type FakeService struct {
	mu sync.Mutex

	// Rows are returned by every Fetch call.
	Rows []Row

	// Err, if set, is returned by Fetch.
	Err error

	// LastFrom and LastTo record the most recent requested range.
	LastFrom time.Time
	LastTo   time.Time

	// Calls counts Fetch invocations.
	Calls int
}

// Fetch returns the scripted rows and records the requested range.
func (f *FakeService) Fetch(_ context.Context, from, to time.Time) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastFrom = from
	f.LastTo = to
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Rows, nil
}

// Float returns a pointer to v, for building scripted rows.
func Float(v float64) *float64 { return &v }
