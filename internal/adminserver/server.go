// Package adminserver hosts a small admin index over HTTP with the
// reorder middleware installed. It exists so the full pipeline can be
// exercised end to end from the CLI and in tests; a real deployment
// installs the middleware into its own admin framework instead.
package adminserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/omenapps/adminsort/internal/adminindex"
	"github.com/omenapps/adminsort/internal/log"
	"github.com/omenapps/adminsort/internal/middleware"
)

// ServerConfig configures the demo admin server.
type ServerConfig struct {
	// Addr is the address to listen on (e.g., ":8084").
	Addr string
	// Middleware is the reorder middleware to install.
	Middleware *middleware.Middleware
	// Apps is the project's default app listing served by the index.
	Apps []adminindex.App
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// Server wraps the Handler with an http.Server for lifecycle management.
type Server struct {
	handler  *Handler
	server   *http.Server
	listener net.Listener
	addr     string
	port     int // Actual port after binding (useful when using :0)
}

// NewServer creates the demo server.
// If Addr uses port 0 (e.g., "localhost:0" or ":0"), the OS will assign an available port.
// Use Port() after Start() to get the actual port.
func NewServer(cfg ServerConfig) (*Server, error) {
	handler := NewHandler(cfg.Apps)

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}

	// Create listener first to get the actual port (important for :0)
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	port := 0
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	routes := http.Handler(handler.Routes())
	if cfg.Middleware != nil {
		routes = cfg.Middleware.Wrap(routes)
	}

	return &Server{
		handler:  handler,
		addr:     cfg.Addr,
		port:     port,
		listener: listener,
		server: &http.Server{
			Handler:           routes,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
		},
	}, nil
}

// Start starts the HTTP server. It blocks until the server is stopped or fails.
func (s *Server) Start() error {
	log.Info(log.CatHTTP, "Starting admin server", "addr", s.listener.Addr().String(), "port", s.port)
	return s.server.Serve(s.listener)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	log.Info(log.CatHTTP, "Stopping admin server")
	return s.server.Shutdown(ctx)
}

// Port returns the actual port the server is listening on.
func (s *Server) Port() int {
	return s.port
}
