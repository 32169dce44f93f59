// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("chatling/plugin")

// Dispatcher fans backend events out to the running plugins of a
// registry, strictly sequentially in dispatch order. A handler failure
// aborts delivery to later plugins and propagates to the caller;
// callers needing fault isolation must wrap handlers themselves.
type Dispatcher struct {
	registry *Registry
	log      *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger sets the dispatcher logger. Defaults to
// slog.Default().
func WithDispatchLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	d := &Dispatcher{
		registry: registry,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Emit is the sole ingress for backend events in their loose
// (kind, args...) form. Arguments are validated against the per-kind
// contract before any plugin runs; violations fail the call with an
// EVENT_CONTRACT error and zero plugins invoked.
func (d *Dispatcher) Emit(ctx context.Context, kind Kind, args ...any) error {
	event, err := ParseEvent(kind, args...)
	if err != nil {
		RecordContractViolation(kind)
		return err
	}
	return d.Dispatch(ctx, event)
}

// Dispatch delivers a typed event to every Running plugin in dispatch
// order, blocking on each handler before moving to the next. Plugin
// status is re-checked per plugin, so a concurrent Stop takes effect for
// plugins the fan-out has not reached yet.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) (err error) {
	emitID := ulid.Make()
	kind := event.Kind()

	ctx, span := tracer.Start(ctx, "plugin.dispatch",
		trace.WithAttributes(
			attribute.String("event.kind", string(kind)),
			attribute.String("emit.id", emitID.String()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			RecordDispatch(kind, "error")
		} else {
			RecordDispatch(kind, "ok")
		}
		span.End()
	}()

	for _, name := range d.registry.Names() {
		p, status, ok := d.registry.lookup(name)
		if !ok || status != StatusRunning {
			continue
		}

		d.log.Debug("delivering event",
			"plugin", name,
			"kind", string(kind),
			"emit_id", emitID.String())

		if herr := deliver(ctx, p, event); herr != nil {
			RecordHandlerFailure(name, kind)
			err = ErrHandlerFailed(name, kind, herr)
			return err
		}
	}
	return nil
}

// deliver invokes the handler matching the event variant. The switch is
// exhaustive over the closed Event set.
func deliver(ctx context.Context, p Plugin, event Event) error {
	switch ev := event.(type) {
	case MessageEvent:
		return p.OnMessage(ctx, ev.Message)
	case FriendshipEvent:
		return p.OnFriendship(ctx, ev.Friendship)
	case LoginEvent:
		return p.OnLogin(ctx, ev.Contact)
	case LogoutEvent:
		return p.OnLogout(ctx, ev.Contact)
	case RoomInviteEvent:
		return p.OnRoomInvite(ctx, ev.Invitation)
	case RoomJoinEvent:
		return p.OnRoomJoin(ctx, ev.Room, ev.Invitees, ev.Inviter, ev.When)
	case RoomLeaveEvent:
		return p.OnRoomLeave(ctx, ev.Room, ev.Leavers, ev.Remover, ev.When)
	case RoomTopicEvent:
		return p.OnRoomTopic(ctx, ev.Room, ev.NewTopic, ev.OldTopic, ev.Changer, ev.When)
	case ScanEvent:
		return p.OnScan(ctx, ev.QRCode, ev.Status, ev.Data)
	case ErrorEvent:
		return p.OnError(ctx, ev.Payload)
	case HeartbeatEvent:
		return p.OnHeartbeat(ctx, ev.Payload)
	case ReadyEvent:
		return p.OnReady(ctx, ev.Payload)
	default:
		return ErrEventContract(event.Kind(), 0, "a known event variant")
	}
}
