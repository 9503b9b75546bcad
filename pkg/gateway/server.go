package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vtmroll/vtmroll/pkg/config"
	"github.com/vtmroll/vtmroll/pkg/logger"
)

// StatusFunc reports whether each channel is running.
type StatusFunc func() map[string]bool

type HealthResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Channels map[string]bool `json:"channels"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Server exposes /healthz and /metrics.
type Server struct {
	cfg      config.GatewayConfig
	status   StatusFunc
	gatherer prometheus.Gatherer
	version  string
	server   *http.Server
}

func NewServer(cfg config.GatewayConfig, status StatusFunc, gatherer prometheus.Gatherer, version string) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		cfg:      cfg,
		status:   status,
		gatherer: gatherer,
		version:  version,
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start listens on the configured host:port and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("gateway listen %s: %w", s.Addr(), err)
	}

	go func() {
		if err := s.Serve(listener); err != nil {
			logger.ErrorCF("gateway", "HTTP server error", map[string]any{"error": err.Error()})
		}
	}()
	return nil
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(listener net.Listener) error {
	logger.InfoCF("gateway", "HTTP server starting", map[string]any{"addr": listener.Addr().String()})
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealth answers 200 while at least one channel is running.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	channels := map[string]bool{}
	if s.status != nil {
		channels = s.status()
	}

	code, status := http.StatusServiceUnavailable, "unavailable"
	for _, running := range channels {
		if running {
			code, status = http.StatusOK, "ok"
			break
		}
	}

	if code != http.StatusOK {
		names := make([]string, 0, len(channels))
		for name := range channels {
			names = append(names, name)
		}
		sort.Strings(names)
		logger.WarnCF("gateway", "Health check failing", map[string]any{"channels": names})
	}

	writeJSON(w, code, HealthResponse{
		Status:   status,
		Version:  s.version,
		Channels: channels,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, ErrorResponse{Error: message, Code: code})
}
