// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"context"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/chatling/chatling/internal/bot"
)

// Status is a plugin's lifecycle state within a registry.
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// record pairs a plugin with its status. The two are only ever created
// and removed together.
type record struct {
	plugin Plugin
	status Status
}

// Registry is the insertion-ordered collection of named plugins.
// Registration order is the dispatch order for event fan-out and is
// preserved across stop/start cycles. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*record

	rt   *bot.Runtime
	host string
	port int
	log  *slog.Logger
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates a plugin registry bound to the given runtime
// handle. host and port form the advertised endpoint for the web server
// that hosts plugin routes.
func NewRegistry(rt *bot.Runtime, host string, port int, opts ...RegistryOption) *Registry {
	r := &Registry{
		records: make(map[string]*record),
		rt:      rt,
		host:    host,
		port:    port,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a plugin at the end of dispatch order with status
// Running. Registering a second plugin under an existing name logs a
// warning and leaves the registry unchanged.
func (r *Registry) Add(p Plugin) {
	name := effectiveName(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[name]; ok {
		r.log.Warn("plugin already registered", "plugin", name)
		return
	}

	r.validateVersion(name, p)

	r.order = append(r.order, name)
	r.records[name] = &record{plugin: p, status: StatusRunning}
	r.log.Info("registered plugin", "plugin", name, "position", len(r.order))
}

// Remove deletes a plugin and its status together.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[name]; !ok {
		return ErrPluginNotFound(name)
	}

	delete(r.records, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.log.Info("removed plugin", "plugin", name)
	return nil
}

// Start marks a plugin Running. Its position in dispatch order is
// unchanged.
func (r *Registry) Start(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[name]
	if !ok {
		return ErrPluginNotFound(name)
	}
	r.log.Info("starting plugin", "plugin", name)
	rec.status = StatusRunning
	return nil
}

// Stop marks a plugin Stopped. Stopping an already-stopped plugin logs a
// warning but is not an error.
func (r *Registry) Stop(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[name]
	if !ok {
		return ErrPluginNotFound(name)
	}
	if rec.status == StatusStopped {
		r.log.Warn("plugin already stopped", "plugin", name)
	}
	r.log.Info("stopping plugin", "plugin", name)
	rec.status = StatusStopped
	return nil
}

// StatusOf returns the plugin's current lifecycle status.
func (r *Registry) StatusOf(name string) (Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return "", ErrPluginNotFound(name)
	}
	return rec.status, nil
}

// Names returns the plugin names in dispatch order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// lookup returns a plugin and its status. The dispatcher calls this per
// plugin inside the fan-out loop so a concurrent Stop takes effect for
// plugins not yet reached.
func (r *Registry) lookup(name string) (Plugin, Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return nil, "", false
	}
	return rec.plugin, rec.status, true
}

// plugins returns every registered plugin in dispatch order, regardless
// of status. Used by the output collector.
func (r *Registry) plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plugin, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.records[name].plugin)
	}
	return out
}

// Endpoint returns the advertised endpoint for the route host,
// e.g. http://0.0.0.0:5000. A host that already carries a scheme is
// passed through.
func (r *Registry) Endpoint() string {
	prefix := ""
	if !strings.HasPrefix(r.host, "http") {
		prefix = "http://"
	}
	return prefix + r.host + ":" + strconv.Itoa(r.port)
}

// Addr returns the host:port pair the web server listens on.
func (r *Registry) Addr() string {
	return r.host + ":" + strconv.Itoa(r.port)
}

// Startup binds the runtime handle into every plugin, runs each
// plugin's Init exactly once, and collects HTTP route contributions.
// It must run before the web listener binds. Plugins keep their runtime
// binding across later stop/start cycles.
func (r *Registry) Startup(ctx context.Context, routes RouteHost) error {
	r.log.Info("starting plugins", "count", len(r.Names()))

	for _, name := range r.Names() {
		p, _, ok := r.lookup(name)
		if !ok {
			continue
		}

		r.log.Info("initializing plugin", "plugin", name)
		if binder, ok := p.(interface{ bindRuntime(*bot.Runtime) }); ok {
			binder.bindRuntime(r.rt)
		}
		if err := p.Init(ctx, r.rt); err != nil {
			return ErrPluginInit(name, err)
		}

		if contributor, ok := p.(RouteContributor); ok && routes != nil {
			contributor.MountRoutes(routes.Source(name))
		}
	}
	return nil
}

// validateVersion warns when a plugin declares a metadata version that
// is not valid semver. Callers hold r.mu.
func (r *Registry) validateVersion(name string, p Plugin) {
	mc, ok := p.(interface{ Metadata() map[string]any })
	if !ok {
		return
	}
	version, ok := mc.Metadata()["version"].(string)
	if !ok || version == "" {
		return
	}
	if _, err := semver.NewVersion(version); err != nil {
		r.log.Warn("plugin version is not valid semver",
			"plugin", name,
			"version", version,
			"error", err)
	}
}

// effectiveName resolves a plugin's name: the configured name, or a name
// derived from the concrete type, cached on the plugin on first use.
func effectiveName(p Plugin) string {
	if name := p.Name(); name != "" {
		return name
	}
	name := deriveName(p)
	if assigner, ok := p.(interface{ assignName(string) }); ok {
		assigner.assignName(name)
	}
	return name
}

func deriveName(p Plugin) string {
	t := reflect.TypeOf(p)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
