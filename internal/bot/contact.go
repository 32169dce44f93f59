// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

// Package bot contains the chat-domain payload types delivered by the
// backend puppet, plus the mention-text extraction used when rendering
// room messages.
package bot

// Contact is a chat account known to the backend.
type Contact struct {
	ID   string
	Name string
}

// Friendship is a friendship request or confirmation from the backend.
type Friendship struct {
	ID        string
	ContactID string
	Hello     string
	Type      FriendshipType
}

// FriendshipType identifies the kind of friendship event.
type FriendshipType uint8

const (
	FriendshipUnknown FriendshipType = iota
	FriendshipConfirm
	FriendshipReceive
	FriendshipVerify
)

func (t FriendshipType) String() string {
	switch t {
	case FriendshipConfirm:
		return "confirm"
	case FriendshipReceive:
		return "receive"
	case FriendshipVerify:
		return "verify"
	default:
		return "unknown"
	}
}
