// Package metrics exposes Prometheus instrumentation for the monitor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors registered by the monitor process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	checkFailures *prometheus.CounterVec
	pollDuration  prometheus.Histogram
	alertActive   *prometheus.GaugeVec
	transitions   prometheus.Counter
}

// New registers the monitor's collectors with the default registry.
func New() *Metrics {
	checkFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enclosure_check_failures_total",
		Help: "Collaborator check failures by check name.",
	}, []string{"check"})
	pollDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "enclosure_poll_duration_seconds",
		Help:    "Duration of a full alert summary pass.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	alertActive := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "enclosure_alert_active",
		Help: "Whether an alert channel is active (1) or clear (0). Absent when the channel state is unknown.",
	}, []string{"channel"})
	transitions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enclosure_transitions_published_total",
		Help: "Alert transitions published to the broker.",
	})

	prometheus.MustRegister(checkFailures, pollDuration, alertActive, transitions)

	return &Metrics{
		checkFailures: checkFailures,
		pollDuration:  pollDuration,
		alertActive:   alertActive,
		transitions:   transitions,
	}
}

// CheckFailed counts a failed collaborator check.
func (m *Metrics) CheckFailed(check string) {
	if m == nil {
		return
	}
	m.checkFailures.WithLabelValues(check).Inc()
}

// ObservePoll records the duration of a summary pass.
func (m *Metrics) ObservePoll(seconds float64) {
	if m == nil {
		return
	}
	m.pollDuration.Observe(seconds)
}

// SetAlert publishes the state of one alert channel. A nil state means the
// channel is unknown and removes the series so dashboards do not show a
// stale value.
func (m *Metrics) SetAlert(channel string, active *bool) {
	if m == nil {
		return
	}
	if active == nil {
		m.alertActive.DeleteLabelValues(channel)
		return
	}
	v := 0.0
	if *active {
		v = 1.0
	}
	m.alertActive.WithLabelValues(channel).Set(v)
}

// TransitionPublished counts one published alert transition.
func (m *Metrics) TransitionPublished() {
	if m == nil {
		return
	}
	m.transitions.Inc()
}
