// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

// Package dingdong implements the liveness-check plugin: it answers the
// text message "ding" by counting a dong. Counts surface through the
// plugin output buffer and a /dingdong/stats endpoint, so an operator
// can confirm the event path end to end by sending one message.
package dingdong

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/chatling/chatling/internal/bot"
	"github.com/chatling/chatling/internal/plugin"
)

// Plugin counts "ding" messages.
type Plugin struct {
	plugin.Base

	mu    sync.Mutex
	dings int
}

// New creates the ding-dong plugin.
func New() *Plugin {
	return &Plugin{Base: plugin.NewBase(plugin.Options{
		Name: "ding-dong",
		Metadata: map[string]any{
			"version": "1.0.0",
		},
	})}
}

// OnMessage counts text messages saying exactly "ding". In rooms the
// mention tokens are stripped first, so "@bot ding" still counts.
func (p *Plugin) OnMessage(ctx context.Context, msg *bot.Message) error {
	if msg.Type != bot.MessageTypeText {
		return nil
	}
	text := msg.Text
	if msg.RoomID != "" && len(msg.MentionIDs) > 0 {
		text = msg.MentionText(p.roomMembers(ctx, msg.RoomID))
	}
	if text != "ding" {
		return nil
	}

	p.mu.Lock()
	p.dings++
	count := p.dings
	p.mu.Unlock()

	p.Report("dings", count)
	slog.Info("dong", "message", msg.ID, "talker", msg.TalkerID, "count", count)
	return nil
}

// roomMembers looks the room's member directory up through the puppet.
// Without a connected puppet mention stripping degrades to a no-op.
func (p *Plugin) roomMembers(ctx context.Context, roomID string) bot.MemberDirectory {
	rt := p.Runtime()
	if rt == nil || rt.Puppet() == nil {
		return nil
	}
	members, err := rt.Puppet().RoomMembers(ctx, roomID)
	if err != nil {
		slog.Warn("failed to load room members", "room", roomID, "error", err)
		return nil
	}
	return members
}

// MountRoutes exposes the running count.
func (p *Plugin) MountRoutes(r plugin.RouteRegistrar) {
	r.HandleFunc("/dingdong/stats", p.handleStats)
}

func (p *Plugin) handleStats(w http.ResponseWriter, _ *http.Request) {
	p.mu.Lock()
	count := p.dings
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"dings": count}); err != nil {
		slog.Error("failed to encode ding-dong stats", "error", err)
	}
}
