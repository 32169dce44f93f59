// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

// Package logging builds the host logger: slog decorated with the
// service identity, OpenTelemetry trace correlation, and structured
// expansion of oops error attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"
)

// Options configure logger construction. Zero values fall back to the
// host defaults: json format, info level, stderr.
type Options struct {
	Service string
	Version string
	Format  string // "json" or "text"
	Level   slog.Level
	Writer  io.Writer
}

// hostHandler decorates an inner handler with the service identity, the
// active span's ids, and oops error expansion.
type hostHandler struct {
	inner   slog.Handler
	service string
	version string
}

// Handle rebuilds the record: identity and trace attributes first, then
// the call site's attributes with error values widened. Error attributes
// log as their message string; oops errors additionally carry their code
// and context under "<key>_code" and "<key>_context".
func (h *hostHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	out.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		out.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		out.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(expandAttr(a)...)
		return true
	})

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.inner.Handle(ctx, out)
}

// expandAttr widens an error attribute so call sites can log
// ("error", err) and still get structured fields. Non-error attributes
// pass through unchanged.
func expandAttr(a slog.Attr) []slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return []slog.Attr{a}
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return []slog.Attr{a}
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []slog.Attr{slog.String(a.Key, err.Error())}
	}

	attrs := []slog.Attr{slog.String(a.Key, oopsErr.Error())}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, slog.String(a.Key+"_code", code))
	}
	if errCtx := oopsErr.Context(); len(errCtx) > 0 {
		attrs = append(attrs, slog.Any(a.Key+"_context", errCtx))
	}
	return attrs
}

// Enabled defers to the inner handler's level gate.
func (h *hostHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs returns a handler carrying the extra attributes. They attach
// on the inner handler, so pre-bound error values are not widened.
func (h *hostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &hostHandler{
		inner:   h.inner.WithAttrs(attrs),
		service: h.service,
		version: h.version,
	}
}

// WithGroup returns a handler scoping subsequent attributes to name.
func (h *hostHandler) WithGroup(name string) slog.Handler {
	return &hostHandler{
		inner:   h.inner.WithGroup(name),
		service: h.service,
		version: h.version,
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error",
// case-insensitive) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, oops.With("level", s).Wrap(err)
	}
	return level, nil
}

// New builds a logger from the options.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var inner slog.Handler
	if opts.Format == "text" {
		inner = slog.NewTextHandler(w, handlerOpts)
	} else {
		inner = slog.NewJSONHandler(w, handlerOpts)
	}

	return slog.New(&hostHandler{
		inner:   inner,
		service: opts.Service,
		version: opts.Version,
	})
}

// SetDefault installs the host logger process-wide.
func SetDefault(opts Options) {
	slog.SetDefault(New(opts))
}
