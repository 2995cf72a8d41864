package probe

import (
	"context"
	"sync"
)

// FakeProber returns scripted reachability per address. Safe for concurrent
// use: callers probe several hosts at once.
type FakeProber struct {
	mu sync.Mutex

	// Up maps addresses to their scripted result. Addresses not in the map
	// are unreachable.
	Up map[string]bool

	// Dialed records every probed address in order.
	Dialed []string
}

// Reachable returns the scripted result for addr.
func (f *FakeProber) Reachable(_ context.Context, addr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Dialed = append(f.Dialed, addr)
	return f.Up[addr]
}

// SetUp scripts the reachability of one address.
func (f *FakeProber) SetUp(addr string, up bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Up == nil {
		f.Up = make(map[string]bool)
	}
	f.Up[addr] = up
}
