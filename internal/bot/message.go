// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package bot

// MessageType identifies the content type of a message.
type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypeImage      MessageType = "image"
	MessageTypeAudio      MessageType = "audio"
	MessageTypeVideo      MessageType = "video"
	MessageTypeAttachment MessageType = "attachment"
	MessageTypeEmoticon   MessageType = "emoticon"
	MessageTypeUnknown    MessageType = "unknown"
)

// Message is a single message delivered by the backend. RoomID is empty
// for direct messages. MentionIDs lists the members the sender mentioned,
// as reported structurally by the backend; the message text may echo them
// as literal "@name" substrings.
type Message struct {
	ID         string
	Text       string
	Type       MessageType
	TalkerID   string
	RoomID     string
	MentionIDs []string
}

// MentionText returns the message text with the mention tokens for the
// structurally mentioned members removed, using the sending room's member
// directory. Messages without structured mentions come back unchanged.
func (m *Message) MentionText(members MemberDirectory) string {
	return ExtractMentionText(m.Text, members, m.MentionIDs)
}
