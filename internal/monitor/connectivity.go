package monitor

import (
	"context"
	"fmt"
	"sync"
)

// Connectivity probes the configured hosts concurrently and reports
// reachability per alias. Plain booleans, no retry and no hysteresis: the
// dashboard wants the state right now.
func (m *Monitor) Connectivity(ctx context.Context) map[string]bool {
	result := make(map[string]bool, len(m.cfg.ProbeHosts))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for alias, addr := range m.cfg.ProbeHosts {
		wg.Add(1)
		go func(alias, addr string) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
			defer cancel()
			up := m.deps.Prober.Reachable(ctx, addr)
			mu.Lock()
			result[alias] = up
			mu.Unlock()
		}(alias, addr)
	}
	wg.Wait()

	return result
}

// Ping probes a single configured host alias.
func (m *Monitor) Ping(ctx context.Context, alias string) (bool, error) {
	addr, ok := m.cfg.ProbeHosts[alias]
	if !ok {
		return false, fmt.Errorf("unknown host %q", alias)
	}
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()
	return m.deps.Prober.Reachable(ctx, addr), nil
}
