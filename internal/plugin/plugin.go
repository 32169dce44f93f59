// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

// Package plugin provides plugin registration, lifecycle control, and
// typed event dispatch for the chat runtime.
package plugin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/chatling/chatling/internal/bot"
)

// Plugin is a registered handler unit reacting to backend events.
// Embed Base to get no-op handlers and only override the events the
// plugin cares about.
type Plugin interface {
	// Name returns the configured plugin name, or "" to let the registry
	// derive one from the concrete type.
	Name() string

	// Init is called exactly once per plugin during registry startup,
	// after the runtime handle has been bound.
	Init(ctx context.Context, rt *bot.Runtime) error

	OnError(ctx context.Context, payload *bot.EventError) error
	OnHeartbeat(ctx context.Context, payload *bot.Heartbeat) error
	OnFriendship(ctx context.Context, friendship *bot.Friendship) error
	OnLogin(ctx context.Context, contact *bot.Contact) error
	OnLogout(ctx context.Context, contact *bot.Contact) error
	OnMessage(ctx context.Context, msg *bot.Message) error
	OnReady(ctx context.Context, payload *bot.Ready) error
	OnRoomInvite(ctx context.Context, invitation *bot.RoomInvitation) error
	OnRoomJoin(ctx context.Context, room *bot.Room, invitees []*bot.Contact, inviter *bot.Contact, when time.Time) error
	OnRoomLeave(ctx context.Context, room *bot.Room, leavers []*bot.Contact, remover *bot.Contact, when time.Time) error
	OnRoomTopic(ctx context.Context, room *bot.Room, newTopic, oldTopic string, changer *bot.Contact, when time.Time) error
	OnScan(ctx context.Context, qrCode string, status bot.ScanStatus, data string) error
}

// RouteRegistrar accepts HTTP route contributions during startup.
type RouteRegistrar interface {
	Handle(pattern string, handler http.Handler)
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// RouteHost hands out per-plugin registrars so routes stay attributed
// to the plugin that mounted them.
type RouteHost interface {
	Source(name string) RouteRegistrar
}

// RouteContributor is the optional capability a plugin implements to
// mount HTTP endpoints into the shared web server. The registry calls it
// once per plugin during startup, before the listener binds.
type RouteContributor interface {
	MountRoutes(r RouteRegistrar)
}

// OutputDrainer is the optional capability exposing a plugin's drain-once
// result buffer to the monitoring collector.
type OutputDrainer interface {
	TakeOutput() map[string]any
}

// Options configures a plugin built on Base.
type Options struct {
	// Name overrides the type-derived plugin name. Must be unique within
	// a registry.
	Name string

	// Metadata is an opaque key-value mapping. A "version" entry, when
	// present, is validated as semver at registration.
	Metadata map[string]any
}

// Base supplies plugin identity, the runtime binding, the drain-once
// output buffer, and no-op implementations of every handler.
type Base struct {
	opts Options
	rt   *bot.Runtime

	mu     sync.Mutex
	output map[string]any
}

// NewBase creates a Base with the given options.
func NewBase(opts Options) Base {
	return Base{opts: opts}
}

// Name returns the configured name. Empty until the registry derives and
// caches one from the concrete type.
func (b *Base) Name() string { return b.opts.Name }

// Metadata returns the plugin's opaque metadata mapping.
func (b *Base) Metadata() map[string]any { return b.opts.Metadata }

// Runtime returns the bound runtime handle, or nil before startup.
func (b *Base) Runtime() *bot.Runtime { return b.rt }

// assignName caches a derived name. First assignment wins; an explicitly
// configured name is never replaced.
func (b *Base) assignName(name string) {
	if b.opts.Name == "" {
		b.opts.Name = name
	}
}

// bindRuntime binds the runtime handle once. Rebinding is a no-op so a
// plugin can be stopped and restarted without losing the handle.
func (b *Base) bindRuntime(rt *bot.Runtime) {
	if b.rt == nil {
		b.rt = rt
	}
}

// Report stores a result in the plugin's output buffer. Values written
// between drains overwrite by key; the buffer is not a queue.
func (b *Base) Report(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.output == nil {
		b.output = make(map[string]any)
	}
	b.output[key] = value
}

// TakeOutput atomically returns the output buffer and clears it.
// Subsequent calls return nil until the plugin reports again.
func (b *Base) TakeOutput() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.output
	b.output = nil
	return out
}

// Init is a no-op; override to set up plugin state.
func (b *Base) Init(context.Context, *bot.Runtime) error { return nil }

func (b *Base) OnError(context.Context, *bot.EventError) error        { return nil }
func (b *Base) OnHeartbeat(context.Context, *bot.Heartbeat) error     { return nil }
func (b *Base) OnFriendship(context.Context, *bot.Friendship) error   { return nil }
func (b *Base) OnLogin(context.Context, *bot.Contact) error           { return nil }
func (b *Base) OnLogout(context.Context, *bot.Contact) error          { return nil }
func (b *Base) OnMessage(context.Context, *bot.Message) error         { return nil }
func (b *Base) OnReady(context.Context, *bot.Ready) error             { return nil }
func (b *Base) OnRoomInvite(context.Context, *bot.RoomInvitation) error {
	return nil
}

func (b *Base) OnRoomJoin(context.Context, *bot.Room, []*bot.Contact, *bot.Contact, time.Time) error {
	return nil
}

func (b *Base) OnRoomLeave(context.Context, *bot.Room, []*bot.Contact, *bot.Contact, time.Time) error {
	return nil
}

func (b *Base) OnRoomTopic(context.Context, *bot.Room, string, string, *bot.Contact, time.Time) error {
	return nil
}

func (b *Base) OnScan(context.Context, string, bot.ScanStatus, string) error {
	return nil
}
