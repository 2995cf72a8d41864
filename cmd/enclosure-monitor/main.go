// Command enclosure-monitor polls the LVM safety sources and publishes
// enclosure alert transitions to MQTT.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sweeney/enclosure-monitor/internal/actor"
	"github.com/sweeney/enclosure-monitor/internal/beacon"
	"github.com/sweeney/enclosure-monitor/internal/config"
	"github.com/sweeney/enclosure-monitor/internal/metrics"
	"github.com/sweeney/enclosure-monitor/internal/monitor"
	"github.com/sweeney/enclosure-monitor/internal/mqtt"
	"github.com/sweeney/enclosure-monitor/internal/probe"
	"github.com/sweeney/enclosure-monitor/internal/tsdb"
	"github.com/sweeney/enclosure-monitor/internal/weather"
	"github.com/sweeney/enclosure-monitor/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults apply when empty)")
	flag.String("listen", ":8080", "HTTP listen address (empty to disable)")
	flag.Duration("interval", 60*time.Second, "Poll interval")
	flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.String("broker", "tcp://localhost:1883", "MQTT broker for events and actors")
	flag.String("station", "DuPont", "Weather station (DuPont, C40 or Magellan)")
	flag.Bool("allow-fake-states", false, "Allow forcing alert states over HTTP")
	flag.Bool("beacon", false, "Drive the GPIO warning lamp")
	flag.Int("beacon-pin", beacon.DefaultPin, "GPIO line offset for the warning lamp")
	printAlerts := flag.Bool("print-alerts", false, "Print current alerts summary and exit")

	flag.Parse()

	cfg, err := buildConfig(*configPath, flag.CommandLine)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printAlerts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// buildConfig loads the YAML file when one is given and then lets explicitly
// set flags win over file values. Unset flags never clobber the file.
func buildConfig(path string, fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if e := applyOverride(cfg, f.Name, f.Value.String()); e != nil && err == nil {
			err = e
		}
	})
	return cfg, err
}

// applyOverride sets the config field a flag controls. Flags without a
// config mapping (like -config itself) pass through untouched.
func applyOverride(cfg *config.Config, name, value string) error {
	switch name {
	case "listen":
		cfg.Listen = value
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("-interval: %w", err)
		}
		cfg.Interval = config.Duration(d)
	case "heartbeat":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("-heartbeat: %w", err)
		}
		cfg.Heartbeat = config.Duration(d)
	case "broker":
		cfg.Events.Broker = value
		cfg.Actors.Broker = value
	case "station":
		cfg.Weather.Station = value
	case "allow-fake-states":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("-allow-fake-states: %w", err)
		}
		cfg.AllowFakeStates = v
	case "beacon":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("-beacon: %w", err)
		}
		cfg.Beacon.Enabled = v
	case "beacon-pin":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("-beacon-pin: %w", err)
		}
		cfg.Beacon.Pin = n
	}
	return nil
}

func run(cfg *config.Config, printAlerts bool) error {
	ws := weather.NewHTTPService(cfg.Weather.URL, cfg.Weather.Station, cfg.Weather.Timeout.Std())

	db, err := tsdb.Open(cfg.Spectro.ConnString)
	if err != nil {
		return err
	}
	defer db.Close()
	temps := tsdb.NewTimescaleQuerier(db, cfg.Spectro.Table)

	actors, err := actor.NewMQTTClient(cfg.Actors.Broker, cfg.Actors.Prefix, cfg.Actors.Enclosure, cfg.Actors.Overwatcher)
	if err != nil {
		return fmt.Errorf("connect actors: %w", err)
	}
	defer actors.Close()

	overlay := monitor.NewOverlay()
	mets := metrics.New()

	mon, err := monitor.New(monitor.Config{
		Wind:            cfg.Weather.Wind.Rule(),
		Humidity:        cfg.Weather.Humidity.Rule(),
		DewPointDelta:   cfg.Weather.DewPointDelta,
		O2Threshold:     cfg.Enclosure.O2Threshold,
		CCDThreshold:    cfg.Spectro.CCDThreshold,
		LN2Threshold:    cfg.Spectro.LN2Threshold,
		SpectroLookback: cfg.Spectro.Lookback.Std(),
		WeatherTimeout:  cfg.Weather.Timeout.Std(),
		SpectroTimeout:  cfg.Spectro.Timeout.Std(),
		ActorTimeout:    cfg.Actors.Timeout.Std(),
		ProbeHosts:      cfg.Connectivity.Hosts,
		ProbeTimeout:    cfg.Connectivity.Timeout.Std(),
	}, monitor.Deps{
		Weather: ws,
		Temps:   temps,
		Actors:  actors,
		Prober:  &probe.NetProber{Timeout: cfg.Connectivity.Timeout.Std()},
		Overlay: overlay,
		Metrics: mets,
	})
	if err != nil {
		return fmt.Errorf("configure monitor: %w", err)
	}

	// One-shot mode
	if printAlerts {
		summary := mon.Summarize(context.Background(), time.Now())
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		fmt.Printf("%s\n", out)
		return nil
	}

	publisher, err := mqtt.NewRealPublisher(cfg.Events.Broker, cfg.Events.ClientID, cfg.Events.Topic)
	if err != nil {
		return fmt.Errorf("connect mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := monitor.NewTracker(time.Now(), monitor.TrackerConfig{
		Interval:  cfg.Interval.Std(),
		Heartbeat: cfg.Heartbeat.Std(),
		Broker:    cfg.Events.Broker,
		Listen:    cfg.Listen,
		Station:   cfg.Weather.Station,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: monitor.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	var lamp beacon.Driver
	if cfg.Beacon.Enabled {
		drv, err := beacon.NewRealDriver(cfg.Beacon.Chip, cfg.Beacon.Pin)
		if err != nil {
			return fmt.Errorf("init beacon: %w", err)
		}
		defer drv.Close()
		lamp = drv
		log.Printf("beacon driving %s line %d", cfg.Beacon.Chip, cfg.Beacon.Pin)
	}

	// Start HTTP server
	if cfg.Listen != "" {
		srv := web.New(web.Config{
			Listen:          cfg.Listen,
			CacheTTL:        cfg.CacheTTL.Std(),
			AllowFakeStates: cfg.AllowFakeStates,
		}, mon, tracker, overlay)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http server listening on %s", cfg.Listen)
	}

	log.Printf("started: station=%s interval=%v heartbeat=%v broker=%s",
		cfg.Weather.Station, cfg.Interval.Std(), cfg.Heartbeat.Std(), cfg.Events.Broker)

	ticker := time.NewTicker(cfg.Interval.Std())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(mon, publisher, publisher, tracker, lamp, mets, cfg.Heartbeat.Std(), time.Now, ticker.C, sigCh)
}

// summarizer is the slice of the monitor runLoop needs; tests script it.
type summarizer interface {
	Summarize(ctx context.Context, now time.Time) *monitor.AlertsSummary
}

func runLoop(mon summarizer, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *monitor.Tracker, lamp beacon.Driver, mets *metrics.Metrics, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	lastHeartbeat := startTime
	var prev *monitor.AlertsSummary

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: monitor.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			if lamp != nil {
				if err := lamp.Set(false); err != nil {
					log.Printf("beacon off error: %v", err)
				}
			}
			return nil

		case <-tick:
			t := now()
			summary := mon.Summarize(context.Background(), t)
			tracker.Update(summary, t)

			changes := monitor.Diff(prev, summary)
			prev = summary

			for _, c := range changes {
				state := mqtt.TransitionCleared
				if c.Raised {
					state = mqtt.TransitionRaised
				}
				log.Printf("alert %s: %s", c.Channel, state)
				if err := publisher.PublishAlert(mqtt.AlertEvent{
					Timestamp: t,
					Channel:   c.Channel,
					State:     state,
				}); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
					continue
				}
				mets.TransitionPublished()
			}
			tracker.RecordChanges(changes)

			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if lamp != nil {
				if err := lamp.Set(summary.AnyActive()); err != nil {
					log.Printf("beacon set error: %v", err)
				}
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v raised=%d cleared=%d",
					snap.Uptime(), snap.Counts.Raised, snap.Counts.Cleared)
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: monitor.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}
