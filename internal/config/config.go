// Package config loads the daemon configuration from YAML. Every field has a
// working default, so a missing file yields a usable local setup; validation
// failures abort startup rather than surfacing per request.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/enclosure-monitor/internal/alerts"
	"github.com/sweeney/enclosure-monitor/internal/beacon"
)

// Duration wraps time.Duration to accept YAML strings like "10s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Listen string `yaml:"listen"`
	// CacheTTL bounds how long a computed alerts summary is served before
	// recomputing. Negative disables caching.
	CacheTTL        Duration `yaml:"cache_ttl"`
	Interval        Duration `yaml:"interval"`
	Heartbeat       Duration `yaml:"heartbeat"`
	AllowFakeStates bool     `yaml:"allow_fake_states"`

	Weather      WeatherConfig      `yaml:"weather"`
	Spectro      SpectroConfig      `yaml:"spectro"`
	Enclosure    EnclosureConfig    `yaml:"enclosure"`
	Actors       ActorsConfig       `yaml:"actors"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Events       EventsConfig       `yaml:"events"`
	Beacon       BeaconConfig       `yaml:"beacon"`
}

// WeatherConfig selects the weather station feed and the wind and humidity
// safety thresholds applied to it.
type WeatherConfig struct {
	URL     string `yaml:"url"`
	Station string `yaml:"station"` // DuPont, C40 or Magellan

	Timeout  Duration  `yaml:"timeout"`
	Wind     Threshold `yaml:"wind"`     // mph
	Humidity Threshold `yaml:"humidity"` // percent
	// DewPointDelta is the minimum safe gap in degrees Celsius between air
	// temperature and dew point.
	DewPointDelta float64 `yaml:"dew_point_delta"`
}

// Threshold is the YAML form of a two-level hysteresis threshold.
type Threshold struct {
	Threshold         float64  `yaml:"threshold"`
	Reopen            float64  `yaml:"reopen"`
	EvaluationWindow  Duration `yaml:"evaluation_window"`
	RollingMeanWindow Duration `yaml:"rolling_mean_window"`
}

// Rule converts the YAML threshold block to an evaluator config.
func (t Threshold) Rule() alerts.ThresholdConfig {
	return alerts.ThresholdConfig{
		Threshold:         t.Threshold,
		ReopenValue:       t.Reopen,
		EvaluationWindow:  t.EvaluationWindow.Std(),
		RollingMeanWindow: t.RollingMeanWindow.Std(),
	}
}

// SpectroConfig points at the TimescaleDB store holding spectrograph
// temperature history.
type SpectroConfig struct {
	ConnString string   `yaml:"conn_string"`
	Table      string   `yaml:"table"`
	Timeout    Duration `yaml:"timeout"`
	Lookback   Duration `yaml:"lookback"`
	// Alert levels in degrees Celsius per sensor type.
	CCDThreshold float64 `yaml:"ccd_threshold"`
	LN2Threshold float64 `yaml:"ln2_threshold"`
}

type EnclosureConfig struct {
	// O2Threshold is the oxygen percentage below which a room is unsafe.
	O2Threshold float64 `yaml:"o2_threshold"`
}

// ActorsConfig names the site actors reached over MQTT request/reply.
type ActorsConfig struct {
	Broker      string   `yaml:"broker"`
	Prefix      string   `yaml:"prefix"`
	Enclosure   string   `yaml:"enclosure"`
	Overwatcher string   `yaml:"overwatcher"`
	Timeout     Duration `yaml:"timeout"`
}

type ConnectivityConfig struct {
	InternetAddr string   `yaml:"internet_addr"`
	LCOAddr      string   `yaml:"lco_addr"`
	Timeout      Duration `yaml:"timeout"`
	// Hosts maps ping aliases to dial addresses for the /ping endpoint.
	Hosts map[string]string `yaml:"hosts"`
}

type EventsConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	// Topic is the base topic; alert transitions publish to <topic>/events
	// and system events to <topic>/system.
	Topic string `yaml:"topic"`
}

type BeaconConfig struct {
	Enabled bool   `yaml:"enabled"`
	Chip    string `yaml:"chip"`
	Pin     int    `yaml:"pin"`
}

// Stations lists the weather stations the LCO feed understands.
var Stations = []string{"DuPont", "C40", "Magellan"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = Duration(10 * time.Second)
	}
	if c.Interval == 0 {
		c.Interval = Duration(60 * time.Second)
	}
	if c.Heartbeat == 0 {
		c.Heartbeat = Duration(15 * time.Minute)
	}

	if c.Weather.URL == "" {
		c.Weather.URL = "http://dataservice.lco.cl/vaisala/data"
	}
	if c.Weather.Station == "" {
		c.Weather.Station = "DuPont"
	}
	if c.Weather.Timeout == 0 {
		c.Weather.Timeout = Duration(10 * time.Second)
	}
	if c.Weather.Wind.Threshold == 0 {
		c.Weather.Wind = Threshold{Threshold: 35, Reopen: 30}
	}
	if c.Weather.Humidity.Threshold == 0 {
		c.Weather.Humidity = Threshold{Threshold: 80, Reopen: 70}
	}
	applyThresholdDefaults(&c.Weather.Wind)
	applyThresholdDefaults(&c.Weather.Humidity)
	if c.Weather.DewPointDelta == 0 {
		c.Weather.DewPointDelta = 3
	}

	if c.Spectro.ConnString == "" {
		c.Spectro.ConnString = "postgres://localhost:5432/lvmdata?sslmode=disable"
	}
	if c.Spectro.Table == "" {
		c.Spectro.Table = "spectro_temps"
	}
	if c.Spectro.Timeout == 0 {
		c.Spectro.Timeout = Duration(10 * time.Second)
	}
	if c.Spectro.Lookback == 0 {
		c.Spectro.Lookback = Duration(5 * time.Minute)
	}
	if c.Spectro.CCDThreshold == 0 {
		c.Spectro.CCDThreshold = -85
	}
	if c.Spectro.LN2Threshold == 0 {
		c.Spectro.LN2Threshold = -175
	}

	if c.Enclosure.O2Threshold == 0 {
		c.Enclosure.O2Threshold = 19.5
	}

	if c.Actors.Broker == "" {
		c.Actors.Broker = "tcp://localhost:1883"
	}
	if c.Actors.Prefix == "" {
		c.Actors.Prefix = "lvm/rpc"
	}
	if c.Actors.Enclosure == "" {
		c.Actors.Enclosure = "lvmecp"
	}
	if c.Actors.Overwatcher == "" {
		c.Actors.Overwatcher = "overwatcher"
	}
	if c.Actors.Timeout == 0 {
		c.Actors.Timeout = Duration(10 * time.Second)
	}

	if c.Connectivity.InternetAddr == "" {
		c.Connectivity.InternetAddr = "8.8.8.8:53"
	}
	if c.Connectivity.LCOAddr == "" {
		// clima.lco.cl, only reachable from the mountain network.
		c.Connectivity.LCOAddr = "10.8.8.46:80"
	}
	if c.Connectivity.Timeout == 0 {
		c.Connectivity.Timeout = Duration(3 * time.Second)
	}
	if c.Connectivity.Hosts == nil {
		c.Connectivity.Hosts = map[string]string{
			"internet": c.Connectivity.InternetAddr,
			"lco":      c.Connectivity.LCOAddr,
		}
	}

	if c.Events.Broker == "" {
		c.Events.Broker = "tcp://localhost:1883"
	}
	if c.Events.ClientID == "" {
		c.Events.ClientID = "enclosure-monitor"
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "lvm/enclosure"
	}

	if c.Beacon.Chip == "" {
		c.Beacon.Chip = "gpiochip0"
	}
	if c.Beacon.Pin == 0 {
		c.Beacon.Pin = beacon.DefaultPin
	}
}

func applyThresholdDefaults(t *Threshold) {
	if t.EvaluationWindow == 0 {
		t.EvaluationWindow = Duration(30 * time.Minute)
	}
	if t.RollingMeanWindow == 0 {
		t.RollingMeanWindow = Duration(30 * time.Minute)
	}
}

func (c *Config) validate() error {
	if c.Interval.Std() <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if err := c.Weather.Wind.Rule().Validate(); err != nil {
		return fmt.Errorf("weather.wind: %w", err)
	}
	if err := c.Weather.Humidity.Rule().Validate(); err != nil {
		return fmt.Errorf("weather.humidity: %w", err)
	}
	if !validStation(c.Weather.Station) {
		return fmt.Errorf("weather.station %q is not one of %v", c.Weather.Station, Stations)
	}
	if c.Weather.DewPointDelta < 0 {
		return fmt.Errorf("weather.dew_point_delta must not be negative")
	}
	if c.Spectro.ConnString == "" {
		return fmt.Errorf("spectro.conn_string is required")
	}
	if c.Spectro.Lookback.Std() <= 0 {
		return fmt.Errorf("spectro.lookback must be positive")
	}
	if c.Enclosure.O2Threshold <= 0 || c.Enclosure.O2Threshold > 100 {
		return fmt.Errorf("enclosure.o2_threshold %v out of range", c.Enclosure.O2Threshold)
	}
	if c.Actors.Broker == "" {
		return fmt.Errorf("actors.broker is required")
	}
	if c.Events.Broker == "" {
		return fmt.Errorf("events.broker is required")
	}
	if c.Connectivity.Timeout.Std() <= 0 {
		return fmt.Errorf("connectivity.timeout must be positive")
	}
	if c.Beacon.Enabled && c.Beacon.Pin < 0 {
		return fmt.Errorf("beacon.pin must be a valid line offset")
	}
	return nil
}

func validStation(s string) bool {
	for _, station := range Stations {
		if s == station {
			return true
		}
	}
	return false
}
