// Package health serves the liveness and status endpoints of a running
// logbook service and checks the database behind it.
package health

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/latoulicious/anglerslog/internal/version"
	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/pkg/errors"
)

const checkTimeout = 2 * time.Second

// Check reports whether one component is usable
type Check func(ctx context.Context) error

// Server answers /health and /status for the serve command
type Server struct {
	server *http.Server
	logger logging.Logger
	now    func() time.Time
	start  time.Time

	mu       sync.RWMutex
	status   string
	checks   map[string]Check
	details  map[string]func() interface{}
	listener net.Listener
}

// Health is the /health response body
type Health struct {
	Status     string          `json:"status"`
	Uptime     string          `json:"uptime"`
	StartTime  time.Time       `json:"start_time"`
	Components map[string]bool `json:"components"`
	Errors     []string        `json:"errors,omitempty"`
}

// Status is the /status response body
type Status struct {
	Application string                 `json:"application"`
	Version     version.Info           `json:"version"`
	Status      string                 `json:"status"`
	Uptime      string                 `json:"uptime"`
	StartTime   time.Time              `json:"start_time"`
	Components  map[string]bool        `json:"components"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// NewServer prepares a server listening on addr once started
func NewServer(addr string, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &Server{
		logger:  logger,
		now:     time.Now,
		status:  "starting",
		checks:  make(map[string]Check),
		details: make(map[string]func() interface{}),
	}
	s.start = s.now()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// AddCheck registers a component that must pass for the service to be healthy
func (s *Server) AddCheck(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// AddDetail registers extra information reported on /status
func (s *Server) AddDetail(name string, fn func() interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[name] = fn
}

// Handler routes the health endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthCheckHandler)
	mux.HandleFunc("/status", s.statusHandler)
	return mux
}

// Start binds the address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.server.Addr)
	}

	s.mu.Lock()
	s.listener = ln
	s.status = "running"
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Health check server error", err, nil)
		}
	}()

	s.logger.Info("Health check server started", map[string]interface{}{
		"address": ln.Addr().String(),
	})
	return nil
}

// Addr is the bound address, useful when started on port 0
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.status = "stopping"
	s.mu.Unlock()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "health server shutdown")
	}
	s.logger.Info("Health check server shutdown complete", nil)
	return nil
}

func (s *Server) runChecks(ctx context.Context) (map[string]bool, []string) {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	checks := make(map[string]Check, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	components := make(map[string]bool, len(names))
	var failures []string
	for _, name := range names {
		err := checks[name](ctx)
		components[name] = err == nil
		if err != nil {
			failures = append(failures, name+": "+err.Error())
		}
	}
	return components, failures
}

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	components, failures := s.runChecks(r.Context())

	body := Health{
		Status:     "healthy",
		Uptime:     s.now().Sub(s.start).Round(time.Second).String(),
		StartTime:  s.start.UTC(),
		Components: components,
		Errors:     failures,
	}

	code := http.StatusOK
	if len(failures) > 0 {
		code = http.StatusServiceUnavailable
		body.Status = "unhealthy"
		s.logger.Warn("Health check failed", map[string]interface{}{
			"errors": failures,
		})
	}
	writeJSON(w, code, body)
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	components, _ := s.runChecks(r.Context())

	s.mu.RLock()
	status := s.status
	details := make(map[string]interface{}, len(s.details))
	for name, fn := range s.details {
		details[name] = fn()
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, Status{
		Application: "AnglersLog",
		Version:     version.Get(),
		Status:      status,
		Uptime:      s.now().Sub(s.start).Round(time.Second).String(),
		StartTime:   s.start.UTC(),
		Components:  components,
		Details:     details,
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
