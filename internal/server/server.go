// Package server provides the HTTP control surface for Mudra: the MJPEG
// display stream, websocket point-cloud and readout feeds, and the backend
// selector API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/ayusman/mudra/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Backends  api.Switcher
}

// Server represents the Mudra HTTP server. It owns the sinks the render
// session publishes into: the frame hub, the readout feed, and the
// point-cloud widget bridge.
type Server struct {
	config  Config
	mux     *http.ServeMux
	httpSrv *http.Server
	start   time.Time
	frames  *FrameHub
	readout *ReadoutHandler
	cloud   *CloudHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config:  config,
		mux:     http.NewServeMux(),
		start:   time.Now(),
		frames:  NewFrameHub(),
		readout: NewReadoutHandler(),
		cloud:   NewCloudHandler(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	s.mux.Handle("/api/stream", NewStreamHandler(s.frames))
	s.mux.Handle("/api/readout", s.readout)
	s.mux.Handle("/api/pointcloud", s.cloud)

	if s.config.Backends != nil {
		s.mux.Handle("/api/backend", api.NewBackendHandler(s.config.Backends))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// FrameHub returns the display-frame sink served at /api/stream.
func (s *Server) FrameHub() *FrameHub {
	return s.frames
}

// Readout returns the angle readout sink served at /api/readout.
func (s *Server) Readout() *ReadoutHandler {
	return s.readout
}

// CloudWidget returns the point-cloud widget bridge served at
// /api/pointcloud.
func (s *Server) CloudWidget() *CloudHandler {
	return s.cloud
}

// SetBackends registers the backend selector API after construction. It is
// used when the switcher is built later than the server, because the render
// session it controls publishes into the server's own sinks.
func (s *Server) SetBackends(sw api.Switcher) {
	s.mux.Handle("/api/backend", api.NewBackendHandler(sw))
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	// Process stats are best-effort; health stays "ok" without them.
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpu, err := proc.CPUPercent(); err == nil {
			response["cpu_percent"] = cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			response["rss_bytes"] = mem.RSS
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address and blocks
// until it fails or Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.httpSrv = &http.Server{Addr: addr, Handler: s}
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops a running server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
