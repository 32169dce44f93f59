// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package bot

// Room is a group conversation on the backend.
type Room struct {
	ID        string
	Topic     string
	MemberIDs []string
}

// RoomMember is a room-scoped view of a contact. RoomAlias, when set,
// overrides the member's global name inside that room.
type RoomMember struct {
	ID        string
	Name      string
	RoomAlias string
}

// DisplayName returns the name the room shows for this member:
// the room alias when one is set, the global name otherwise.
func (m RoomMember) DisplayName() string {
	if m.RoomAlias != "" {
		return m.RoomAlias
	}
	return m.Name
}

// MemberDirectory maps member id to the member's room-scoped identity.
// Supplied per room by the puppet; never cached by this package.
type MemberDirectory map[string]RoomMember

// RoomInvitation is an invitation for the logged-in account to join a room.
type RoomInvitation struct {
	ID        string
	Topic     string
	InviterID string
}
