// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

// Package web hosts plugin-contributed HTTP routes alongside metrics
// and health endpoints.
package web

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/chatling/chatling/internal/plugin"
)

// Route is one mounted pattern and the component that mounted it.
type Route struct {
	Pattern string
	Source  string
}

// Router is a pattern-recording mux. Plugins mount routes through
// per-source registrars so the operator-facing route table can attribute
// every pattern to its owner.
type Router struct {
	mux *http.ServeMux

	mu     sync.Mutex
	routes []Route
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// Source returns a registrar that attributes mounted routes to name.
// Implements plugin.RouteHost.
func (r *Router) Source(name string) plugin.RouteRegistrar {
	return &sourceRegistrar{router: r, source: name}
}

// Handle mounts a server-owned handler.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.record(pattern, "server")
	r.mux.Handle(pattern, handler)
}

// HandleFunc mounts a server-owned handler function.
func (r *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	r.record(pattern, "server")
	r.mux.HandleFunc(pattern, handler)
}

// ServeHTTP dispatches to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Routes returns the mounted routes sorted by pattern.
func (r *Router) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	routes := make([]Route, len(r.routes))
	copy(routes, r.routes)
	sort.Slice(routes, func(i, j int) bool { return routes[i].Pattern < routes[j].Pattern })
	return routes
}

// RoutesText renders the route table for the operator log.
func (r *Router) RoutesText() string {
	routes := r.Routes()
	if len(routes) == 0 {
		return "No routes were registered."
	}

	patternWidth, sourceWidth := len("Pattern"), len("Source")
	for _, route := range routes {
		if len(route.Pattern) > patternWidth {
			patternWidth = len(route.Pattern)
		}
		if len(route.Source) > sourceWidth {
			sourceWidth = len(route.Source)
		}
	}

	var b strings.Builder
	writeRow := func(pattern, source string) {
		b.WriteString(pad(pattern, patternWidth))
		b.WriteString(" | ")
		b.WriteString(pad(source, sourceWidth))
		b.WriteString("\n")
	}
	writeRow("Pattern", "Source")
	writeRow(strings.Repeat("-", patternWidth), strings.Repeat("-", sourceWidth))
	for _, route := range routes {
		writeRow(route.Pattern, route.Source)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Router) record(pattern, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, Route{Pattern: pattern, Source: source})
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// sourceRegistrar attributes everything mounted through it to one
// plugin.
type sourceRegistrar struct {
	router *Router
	source string
}

func (s *sourceRegistrar) Handle(pattern string, handler http.Handler) {
	s.router.record(pattern, s.source)
	s.router.mux.Handle(pattern, handler)
}

func (s *sourceRegistrar) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.router.record(pattern, s.source)
	s.router.mux.HandleFunc(pattern, handler)
}
