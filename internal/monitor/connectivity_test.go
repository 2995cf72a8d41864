package monitor

import (
	"context"
	"testing"

	"github.com/sweeney/enclosure-monitor/internal/probe"
)

func TestConnectivity(t *testing.T) {
	deps, _, _, _ := healthyDeps(testNow)
	deps.Prober = &probe.FakeProber{Up: map[string]bool{
		"8.8.8.8:53": true,
		// lco target stays down
	}}
	m := newTestMonitor(t, deps)

	got := m.Connectivity(context.Background())

	if len(got) != 2 {
		t.Fatalf("expected 2 hosts, got %d: %v", len(got), got)
	}
	if !got["internet"] {
		t.Error("internet should be reachable")
	}
	if got["lco"] {
		t.Error("lco should be unreachable")
	}
}

func TestPing(t *testing.T) {
	deps, _, _, _ := healthyDeps(testNow)
	fp := &probe.FakeProber{Up: map[string]bool{"10.8.8.46:80": true}}
	deps.Prober = fp
	m := newTestMonitor(t, deps)

	up, err := m.Ping(context.Background(), "lco")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !up {
		t.Error("lco should be reachable")
	}

	if len(fp.Dialed) != 1 || fp.Dialed[0] != "10.8.8.46:80" {
		t.Errorf("expected one dial to the lco target, got %v", fp.Dialed)
	}
}

func TestPingUnknownHost(t *testing.T) {
	deps, _, _, _ := healthyDeps(testNow)
	m := newTestMonitor(t, deps)

	if _, err := m.Ping(context.Background(), "mars"); err == nil {
		t.Error("expected error for unknown host alias")
	}
}
