package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/enclosure-monitor/internal/beacon"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
weather:
  station: C40
spectro:
  conn_string: "postgres://user:pass@db/lvm?sslmode=disable"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %s", cfg.Listen)
	}
	if cfg.Weather.Station != "C40" {
		t.Errorf("expected station C40, got %s", cfg.Weather.Station)
	}
	if cfg.Weather.Wind.Threshold != 35 || cfg.Weather.Wind.Reopen != 30 {
		t.Errorf("expected wind defaults 35/30, got %v/%v", cfg.Weather.Wind.Threshold, cfg.Weather.Wind.Reopen)
	}
	if cfg.Weather.Humidity.Threshold != 80 || cfg.Weather.Humidity.Reopen != 70 {
		t.Errorf("expected humidity defaults 80/70, got %v/%v", cfg.Weather.Humidity.Threshold, cfg.Weather.Humidity.Reopen)
	}
	if cfg.Weather.Wind.EvaluationWindow.Std() != 30*time.Minute {
		t.Errorf("expected 30m evaluation window, got %s", cfg.Weather.Wind.EvaluationWindow.Std())
	}
	if cfg.Spectro.CCDThreshold != -85 || cfg.Spectro.LN2Threshold != -175 {
		t.Errorf("expected spectro defaults -85/-175, got %v/%v", cfg.Spectro.CCDThreshold, cfg.Spectro.LN2Threshold)
	}
	if cfg.Enclosure.O2Threshold != 19.5 {
		t.Errorf("expected o2 threshold 19.5, got %v", cfg.Enclosure.O2Threshold)
	}
	if cfg.CacheTTL.Std() != 10*time.Second {
		t.Errorf("expected cache ttl 10s, got %s", cfg.CacheTTL.Std())
	}
	if cfg.Interval.Std() != time.Minute {
		t.Errorf("expected interval 60s, got %s", cfg.Interval.Std())
	}
	if cfg.Connectivity.Hosts["internet"] != "8.8.8.8:53" {
		t.Errorf("expected default internet host, got %q", cfg.Connectivity.Hosts["internet"])
	}
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, `
cache_ttl: 30s
interval: 2m
weather:
  timeout: 5s
  wind:
    threshold: 40
    reopen: 33
    evaluation_window: 45m
    rolling_mean_window: 10m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.CacheTTL.Std() != 30*time.Second {
		t.Errorf("expected cache ttl 30s, got %s", cfg.CacheTTL.Std())
	}
	if cfg.Interval.Std() != 2*time.Minute {
		t.Errorf("expected interval 2m, got %s", cfg.Interval.Std())
	}
	if cfg.Weather.Timeout.Std() != 5*time.Second {
		t.Errorf("expected weather timeout 5s, got %s", cfg.Weather.Timeout.Std())
	}
	rule := cfg.Weather.Wind.Rule()
	if rule.Threshold != 40 || rule.ReopenValue != 33 {
		t.Errorf("expected wind 40/33, got %v/%v", rule.Threshold, rule.ReopenValue)
	}
	if rule.EvaluationWindow != 45*time.Minute || rule.RollingMeanWindow != 10*time.Minute {
		t.Errorf("unexpected windows: %s / %s", rule.EvaluationWindow, rule.RollingMeanWindow)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "interval: sixty seconds\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestLoadRejectsReopenAboveThreshold(t *testing.T) {
	path := writeConfig(t, `
weather:
  wind:
    threshold: 30
    reopen: 35
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error when reopen exceeds threshold")
	}
}

func TestLoadRejectsUnknownStation(t *testing.T) {
	path := writeConfig(t, "weather:\n  station: Atacama\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown station")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.AllowFakeStates {
		t.Error("fake states must be off by default")
	}
	if cfg.Beacon.Enabled {
		t.Error("beacon must be off by default")
	}
	if cfg.Beacon.Pin != beacon.DefaultPin {
		t.Errorf("expected default lamp pin %d, got %d", beacon.DefaultPin, cfg.Beacon.Pin)
	}
}
