// Package web provides the HTTP surface of the enclosure monitor: the
// alerts JSON API, the administrative fake-states endpoint, Prometheus
// exposition, and a human status page.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/enclosure-monitor/internal/monitor"
)

// Config controls the server surface.
type Config struct {
	Listen string

	// CacheTTL bounds how long a computed alerts summary is re-served.
	// Zero or negative disables the cache.
	CacheTTL time.Duration

	// AllowFakeStates permits PUT /fake-states. Off in production: a forced
	// state silences real alarms.
	AllowFakeStates bool
}

// Server serves the monitor over HTTP.
type Server struct {
	httpServer *http.Server
	monitor    *monitor.Monitor
	tracker    *monitor.Tracker
	overlay    *monitor.Overlay
	cfg        Config

	now func() time.Time

	mu       sync.Mutex
	cached   []byte
	cachedAt time.Time
}

// New creates a Server around the given monitor.
func New(cfg Config, mon *monitor.Monitor, tracker *monitor.Tracker, overlay *monitor.Overlay) *Server {
	s := &Server{
		monitor: mon,
		tracker: tracker,
		overlay: overlay,
		cfg:     cfg,
		now:     time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleStatusJSON)
	mux.HandleFunc("/alerts", s.handleAlerts)
	mux.HandleFunc("/alerts/summary", s.handleAlerts)
	mux.HandleFunc("/alerts/connectivity", s.handleConnectivity)
	mux.HandleFunc("/fake-states", s.handleFakeStates)
	mux.HandleFunc("/ping/", s.handlePing)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleAlerts serves the alerts summary. Collaborator failures degrade
// fields to null; they never turn into a 5xx here.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := s.now()

	s.mu.Lock()
	if s.cfg.CacheTTL > 0 && s.cached != nil && now.Sub(s.cachedAt) < s.cfg.CacheTTL {
		body := s.cached
		s.mu.Unlock()
		writeRaw(w, http.StatusOK, body)
		return
	}
	s.mu.Unlock()

	summary := s.monitor.Summarize(r.Context(), now)
	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode summary")
		return
	}

	s.mu.Lock()
	s.cached = body
	s.cachedAt = now
	s.mu.Unlock()

	writeRaw(w, http.StatusOK, body)
}

func (s *Server) invalidateCache() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	// Always probed live, never cached.
	writeJSON(w, http.StatusOK, s.monitor.Connectivity(r.Context()))
}

// FakeStates is the wire form of the override layer.
type FakeStates struct {
	Enabled bool                  `json:"enabled"`
	States  monitor.OverlayStates `json:"states"`
}

func (s *Server) handleFakeStates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		enabled, states := s.overlay.Snapshot()
		writeJSON(w, http.StatusOK, FakeStates{Enabled: enabled, States: states})

	case http.MethodPut:
		if !s.cfg.AllowFakeStates {
			writeError(w, http.StatusForbidden, "fake states are not allowed on this instance")
			return
		}
		var req FakeStates
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}
		s.overlay.Set(req.Enabled, req.States)
		// The next /alerts must see the forced states immediately.
		s.invalidateCache()
		writeJSON(w, http.StatusOK, req)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// PingResult is the wire form of a single-host probe.
type PingResult struct {
	Host      string `json:"host"`
	Reachable bool   `json:"reachable"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	host := strings.TrimPrefix(r.URL.Path, "/ping/")
	if host == "" || strings.Contains(host, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	up, err := s.monitor.Ping(r.Context(), host)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PingResult{Host: host, Reachable: up})
}

// Health is the liveness payload.
type Health struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, Health{
		Status:        "ok",
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
	})
}

// handleStatusJSON serves the machine-readable form of the status page:
// the latest summary plus daemon state, in the same envelope the MQTT
// system events carry.
func (s *Server) handleStatusJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeRaw(w, http.StatusOK, monitor.FormatJSON(s.tracker.Snapshot()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	connectivity := s.monitor.Connectivity(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, connectivity)
}
