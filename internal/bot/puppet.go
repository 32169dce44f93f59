// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package bot

import "context"

// Puppet is the chat-backend transport. It supplies payload lookups for
// the ids carried in events; the transport itself (protocol, reconnect,
// buffering) lives outside this module.
type Puppet interface {
	ContactPayload(ctx context.Context, contactID string) (Contact, error)
	RoomPayload(ctx context.Context, roomID string) (Room, error)
	MessagePayload(ctx context.Context, messageID string) (Message, error)
	RoomMembers(ctx context.Context, roomID string) (MemberDirectory, error)
}

// Runtime is the host handle bound into each plugin at startup. Plugins
// use it to reach the puppet for payload lookups.
type Runtime struct {
	puppet Puppet
}

// NewRuntime creates a runtime handle over the given puppet.
// A nil puppet is allowed; plugins that need lookups must check.
func NewRuntime(puppet Puppet) *Runtime {
	return &Runtime{puppet: puppet}
}

// Puppet returns the backend transport, or nil when the runtime is not
// connected to one.
func (r *Runtime) Puppet() Puppet {
	return r.puppet
}
