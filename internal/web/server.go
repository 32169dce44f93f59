// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/chatling/chatling/internal/plugin"
)

// ReadinessChecker returns whether the service is ready to accept
// traffic.
type ReadinessChecker func() bool

// Server hosts plugin-contributed routes plus the built-in metrics,
// health, and plugin-status endpoints.
type Server struct {
	addr       string
	router     *Router
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	plugins    *plugin.Registry
	isReady    ReadinessChecker
	running    atomic.Bool
}

// NewServer creates a server for the given listen address. plugins may
// be nil, disabling the /plugins listing.
func NewServer(addr string, plugins *plugin.Registry, readinessChecker ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	plugin.RegisterMetrics(registry)

	s := &Server{
		addr:     addr,
		router:   NewRouter(),
		registry: registry,
		plugins:  plugins,
		isReady:  readinessChecker,
	}

	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	s.router.HandleFunc("/healthz/liveness", s.handleLiveness)
	s.router.HandleFunc("/healthz/readiness", s.handleReadiness)
	if plugins != nil {
		s.router.HandleFunc("/plugins", s.handlePlugins)
	}

	return s
}

// Router returns the route host plugins mount their endpoints into.
func (s *Server) Router() *Router {
	return s.router
}

// Start begins serving. It returns an error channel that receives any
// error from the HTTP server after startup; the channel closes when the
// server stops gracefully. Plugin routes must be mounted before Start.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	slog.Info("web server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" before
// Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("ok\n"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.isReady == nil || s.isReady() {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // health check write error is acceptable, client may disconnect
		w.Write([]byte("ok\n"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("not ready\n"))
}

// PluginStatus is one row of the /plugins listing.
type PluginStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// handlePlugins lists registered plugins in dispatch order. An optional
// match query parameter filters names with a glob pattern.
func (s *Server) handlePlugins(w http.ResponseWriter, req *http.Request) {
	var matcher glob.Glob
	if pattern := req.URL.Query().Get("match"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			http.Error(w, "invalid match pattern", http.StatusBadRequest)
			return
		}
		matcher = g
	}

	statuses := make([]PluginStatus, 0)
	for _, name := range s.plugins.Names() {
		if matcher != nil && !matcher.Match(name) {
			continue
		}
		status, err := s.plugins.StatusOf(name)
		if err != nil {
			// Removed between Names and StatusOf; skip.
			continue
		}
		statuses = append(statuses, PluginStatus{Name: name, Status: string(status)})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		slog.Error("failed to encode plugin listing", "error", err)
	}
}
