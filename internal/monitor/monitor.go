// Package monitor aggregates the source checks into the enclosure alerts
// summary. Checks run concurrently and independently: a failing collaborator
// degrades its own fields to unknown and never takes the summary down.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sweeney/enclosure-monitor/internal/actor"
	"github.com/sweeney/enclosure-monitor/internal/alerts"
	"github.com/sweeney/enclosure-monitor/internal/metrics"
	"github.com/sweeney/enclosure-monitor/internal/probe"
	"github.com/sweeney/enclosure-monitor/internal/tsdb"
	"github.com/sweeney/enclosure-monitor/internal/weather"
)

// Config carries the evaluation thresholds and check timeouts.
type Config struct {
	Wind     alerts.ThresholdConfig
	Humidity alerts.ThresholdConfig

	// DewPointDelta is the minimum margin in °C between air temperature and
	// dew point before condensation becomes a risk.
	DewPointDelta float64

	// O2Threshold is the oxygen percentage below which a room alarms.
	O2Threshold float64

	CCDThreshold    float64 // °C, mean above this trips a ccd channel
	LN2Threshold    float64 // °C, mean above this trips an ln2 channel
	SpectroLookback time.Duration

	// Per-check timeouts: each check's collaborator round trip is bounded
	// by its own configured value, so one slow source degrades only its
	// own fields.
	WeatherTimeout time.Duration
	SpectroTimeout time.Duration
	ActorTimeout   time.Duration

	// ProbeHosts maps connectivity aliases to dial addresses.
	ProbeHosts   map[string]string
	ProbeTimeout time.Duration
}

// Deps are the monitor's collaborators. Overlay and Metrics may be nil.
type Deps struct {
	Weather weather.Service
	Temps   tsdb.Querier
	Actors  actor.Client
	Prober  probe.Prober
	Overlay *Overlay
	Metrics *metrics.Metrics
}

// Monitor computes alert summaries on demand.
type Monitor struct {
	cfg  Config
	deps Deps
}

// New validates the configuration and returns a Monitor. Threshold
// violations are configuration errors and surface here, never per call.
func New(cfg Config, deps Deps) (*Monitor, error) {
	if err := cfg.Wind.Validate(); err != nil {
		return nil, fmt.Errorf("wind thresholds: %w", err)
	}
	if err := cfg.Humidity.Validate(); err != nil {
		return nil, fmt.Errorf("humidity thresholds: %w", err)
	}
	if cfg.SpectroLookback <= 0 {
		return nil, errors.New("spectrograph lookback must be positive")
	}
	if cfg.WeatherTimeout <= 0 {
		return nil, errors.New("weather timeout must be positive")
	}
	if cfg.SpectroTimeout <= 0 {
		return nil, errors.New("spectro timeout must be positive")
	}
	if cfg.ActorTimeout <= 0 {
		return nil, errors.New("actor timeout must be positive")
	}
	if len(cfg.ProbeHosts) > 0 && cfg.ProbeTimeout <= 0 {
		return nil, errors.New("probe timeout must be positive")
	}
	return &Monitor{cfg: cfg, deps: deps}, nil
}

// Summarize runs all checks concurrently and merges their verdicts.
// It never returns an error: check failures leave the owning fields null.
// Safe for concurrent use.
func (m *Monitor) Summarize(ctx context.Context, now time.Time) *AlertsSummary {
	started := time.Now()
	s := NewSummary()

	var (
		wg sync.WaitGroup

		weatherRes weatherVerdicts
		weatherErr error

		enclosureRes *enclosureVerdicts
		enclosureErr error

		cameraRes map[string]bool
		cameraErr error

		overwatcherRes *OverwatcherAlerts
		overwatcherErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		weatherRes, weatherErr = m.checkWeather(ctx, now)
	}()
	go func() {
		defer wg.Done()
		enclosureRes, enclosureErr = m.checkEnclosure(ctx)
	}()
	go func() {
		defer wg.Done()
		cameraRes, cameraErr = m.checkCameraTemps(ctx, now)
	}()
	go func() {
		defer wg.Done()
		overwatcherRes, overwatcherErr = m.checkOverwatcher(ctx)
	}()
	wg.Wait()

	if weatherErr != nil {
		log.Printf("monitor: weather check failed: %v", weatherErr)
		m.deps.Metrics.CheckFailed("weather")
	} else {
		s.WindAlert = weatherRes.wind
		s.HumidityAlert = weatherRes.humidity
		s.DewPointAlert = weatherRes.dewPoint
	}

	if enclosureErr != nil {
		log.Printf("monitor: enclosure check failed: %v", enclosureErr)
		m.deps.Metrics.CheckFailed("enclosure")
	} else {
		s.O2RoomAlerts = enclosureRes.rooms
		s.O2Alert = &enclosureRes.o2
		s.DoorAlert = &enclosureRes.door
		s.Rain = enclosureRes.rain
		s.EngineeringOverride = enclosureRes.override
	}

	if cameraErr != nil {
		log.Printf("monitor: camera temperature check failed: %v", cameraErr)
		m.deps.Metrics.CheckFailed("spectro")
	} else {
		s.CameraAlerts = cameraRes
		anyCam := anyTrue(cameraRes)
		s.CameraTemperatureAlert = &anyCam
	}

	if overwatcherErr != nil {
		log.Printf("monitor: overwatcher check failed: %v", overwatcherErr)
		m.deps.Metrics.CheckFailed("overwatcher")
	} else {
		s.OverwatcherAlerts = overwatcherRes
	}

	if m.deps.Overlay != nil {
		m.deps.Overlay.Apply(s)
	}

	for _, ch := range watchChannels {
		m.deps.Metrics.SetAlert(ch.name, ch.get(s))
	}
	m.deps.Metrics.ObservePoll(time.Since(started).Seconds())

	return s
}

type weatherVerdicts struct {
	wind     *bool
	humidity *bool
	dewPoint *bool
}

func (m *Monitor) checkWeather(ctx context.Context, now time.Time) (weatherVerdicts, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.WeatherTimeout)
	defer cancel()

	span := fetchSpan(m.cfg.Wind, m.cfg.Humidity)
	rows, err := m.deps.Weather.Fetch(ctx, now.Add(-span), now)
	if err != nil {
		return weatherVerdicts{}, err
	}
	if len(rows) == 0 {
		// The feed answered but has no data. Not a check failure; the
		// verdicts are unknown.
		return weatherVerdicts{}, nil
	}

	var v weatherVerdicts
	v.wind = channelVerdict(rows, now, m.cfg.Wind, func(r weather.Row) *float64 { return r.WindSpeedAvg })
	v.humidity = channelVerdict(rows, now, m.cfg.Humidity, func(r weather.Row) *float64 { return r.RelativeHumidity })

	// Dew point margin is instantaneous: only the latest complete reading counts.
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Temperature == nil || rows[i].DewPoint == nil {
			continue
		}
		alert := *rows[i].Temperature-*rows[i].DewPoint < m.cfg.DewPointDelta
		v.dewPoint = &alert
		break
	}
	return v, nil
}

// channelVerdict builds the rolling-mean series for one weather channel and
// evaluates it. Rows with a null reading are skipped, not zeroed.
func channelVerdict(rows []weather.Row, now time.Time, cfg alerts.ThresholdConfig, value func(weather.Row) *float64) *bool {
	samples := make([]alerts.Sample, 0, len(rows))
	for _, r := range rows {
		if v := value(r); v != nil {
			samples = append(samples, alerts.Sample{Time: r.Time, Value: *v})
		}
	}
	means := alerts.NewSeries(samples).RollingMean(cfg.RollingMeanWindow)
	return alerts.Evaluate(means, now, cfg).Alert()
}

// fetchSpan covers two evaluation windows plus the rolling-mean warmup, so
// the latch test has fully warmed means for the previous window.
func fetchSpan(cfgs ...alerts.ThresholdConfig) time.Duration {
	var eval, roll time.Duration
	for _, c := range cfgs {
		if c.EvaluationWindow > eval {
			eval = c.EvaluationWindow
		}
		if c.RollingMeanWindow > roll {
			roll = c.RollingMeanWindow
		}
	}
	return 2*eval + roll
}

type enclosureVerdicts struct {
	rooms    map[string]bool
	o2       bool
	door     bool
	rain     *bool
	override bool
}

func (m *Monitor) checkEnclosure(ctx context.Context) (*enclosureVerdicts, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ActorTimeout)
	defer cancel()

	st, err := m.deps.Actors.EnclosureStatus(ctx)
	if err != nil {
		return nil, err
	}

	rooms := map[string]bool{
		"o2_spec_room": st.O2Spectrograph < m.cfg.O2Threshold,
		"o2_util_room": st.O2Utilities < m.cfg.O2Threshold,
	}
	return &enclosureVerdicts{
		rooms:    rooms,
		o2:       anyTrue(rooms),
		door:     st.DoorAlert(),
		rain:     st.RainSensorAlarm,
		override: st.Override(),
	}, nil
}

func (m *Monitor) checkCameraTemps(ctx context.Context, now time.Time) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.SpectroTimeout)
	defer cancel()

	readings, err := m.deps.Temps.TempReadings(ctx, now.Add(-m.cfg.SpectroLookback), now)
	if err != nil {
		return nil, err
	}
	return alerts.CameraTempAlerts(readings, m.cfg.CCDThreshold, m.cfg.LN2Threshold), nil
}

func (m *Monitor) checkOverwatcher(ctx context.Context) (*OverwatcherAlerts, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ActorTimeout)
	defer cancel()

	st, err := m.deps.Actors.OverwatcherStatus(ctx)
	if err != nil {
		return nil, err
	}
	// A reply without an alerts list carries no verdict; reporting
	// idle=false here would dress an unknown up as a known state.
	if st.Alerts == nil {
		return nil, nil
	}
	return &OverwatcherAlerts{Idle: st.Idle()}, nil
}

func anyTrue(m map[string]bool) bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}
