// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"time"

	"github.com/chatling/chatling/internal/bot"
)

// Kind identifies an event kind on the backend ingress.
type Kind string

const (
	KindMessage    Kind = "message"
	KindFriendship Kind = "friendship"
	KindLogin      Kind = "login"
	KindLogout     Kind = "logout"
	KindRoomInvite Kind = "room-invite"
	KindRoomJoin   Kind = "room-join"
	KindRoomLeave  Kind = "room-leave"
	KindRoomTopic  Kind = "room-topic"
	KindScan       Kind = "scan"
	KindError      Kind = "error"
	KindHeartbeat  Kind = "heartbeat"
	KindReady      Kind = "ready"
)

// Event is the closed set of backend events, one variant per kind, each
// carrying its exact typed payload. ParseEvent builds variants from the
// loose (kind, args...) ingress; dispatch is an exhaustive switch over
// the variants.
type Event interface {
	Kind() Kind
	isEvent()
}

// MessageEvent carries a message arrival.
type MessageEvent struct {
	Message *bot.Message
}

// FriendshipEvent carries a friendship request or confirmation.
type FriendshipEvent struct {
	Friendship *bot.Friendship
}

// LoginEvent carries the contact that logged in.
type LoginEvent struct {
	Contact *bot.Contact
}

// LogoutEvent carries the contact that logged out.
type LogoutEvent struct {
	Contact *bot.Contact
}

// RoomInviteEvent carries an invitation to join a room.
type RoomInviteEvent struct {
	Invitation *bot.RoomInvitation
}

// RoomJoinEvent carries a room membership addition.
type RoomJoinEvent struct {
	Room     *bot.Room
	Invitees []*bot.Contact
	Inviter  *bot.Contact
	When     time.Time
}

// RoomLeaveEvent carries a room membership removal.
type RoomLeaveEvent struct {
	Room    *bot.Room
	Leavers []*bot.Contact
	Remover *bot.Contact
	When    time.Time
}

// RoomTopicEvent carries a room topic change.
type RoomTopicEvent struct {
	Room     *bot.Room
	NewTopic string
	OldTopic string
	Changer  *bot.Contact
	When     time.Time
}

// ScanEvent carries QR-scan progress. Data is optional and empty when
// the backend supplied none.
type ScanEvent struct {
	QRCode string
	Status bot.ScanStatus
	Data   string
}

// ErrorEvent carries a backend error payload.
type ErrorEvent struct {
	Payload *bot.EventError
}

// HeartbeatEvent carries a backend keepalive.
type HeartbeatEvent struct {
	Payload *bot.Heartbeat
}

// ReadyEvent announces the backend finished syncing.
type ReadyEvent struct {
	Payload *bot.Ready
}

func (MessageEvent) Kind() Kind    { return KindMessage }
func (FriendshipEvent) Kind() Kind { return KindFriendship }
func (LoginEvent) Kind() Kind      { return KindLogin }
func (LogoutEvent) Kind() Kind     { return KindLogout }
func (RoomInviteEvent) Kind() Kind { return KindRoomInvite }
func (RoomJoinEvent) Kind() Kind   { return KindRoomJoin }
func (RoomLeaveEvent) Kind() Kind  { return KindRoomLeave }
func (RoomTopicEvent) Kind() Kind  { return KindRoomTopic }
func (ScanEvent) Kind() Kind       { return KindScan }
func (ErrorEvent) Kind() Kind      { return KindError }
func (HeartbeatEvent) Kind() Kind  { return KindHeartbeat }
func (ReadyEvent) Kind() Kind      { return KindReady }

func (MessageEvent) isEvent()    {}
func (FriendshipEvent) isEvent() {}
func (LoginEvent) isEvent()      {}
func (LogoutEvent) isEvent()     {}
func (RoomInviteEvent) isEvent() {}
func (RoomJoinEvent) isEvent()   {}
func (RoomLeaveEvent) isEvent()  {}
func (RoomTopicEvent) isEvent()  {}
func (ScanEvent) isEvent()       {}
func (ErrorEvent) isEvent()      {}
func (HeartbeatEvent) isEvent()  {}
func (ReadyEvent) isEvent()      {}

// ParseEvent validates the loose (kind, args...) form delivered by the
// backend against the per-kind contract and returns the typed variant.
// Any arity or type mismatch fails with an EVENT_CONTRACT error before
// any plugin runs.
func ParseEvent(kind Kind, args ...any) (Event, error) {
	switch kind {
	case KindMessage:
		msg, ok := one[*bot.Message](args)
		if !ok || msg == nil {
			return nil, ErrEventContract(kind, len(args), "Message")
		}
		return MessageEvent{Message: msg}, nil

	case KindFriendship:
		friendship, ok := one[*bot.Friendship](args)
		if !ok || friendship == nil {
			return nil, ErrEventContract(kind, len(args), "Friendship")
		}
		return FriendshipEvent{Friendship: friendship}, nil

	case KindLogin:
		contact, ok := one[*bot.Contact](args)
		if !ok || contact == nil {
			return nil, ErrEventContract(kind, len(args), "Contact")
		}
		return LoginEvent{Contact: contact}, nil

	case KindLogout:
		contact, ok := one[*bot.Contact](args)
		if !ok || contact == nil {
			return nil, ErrEventContract(kind, len(args), "Contact")
		}
		return LogoutEvent{Contact: contact}, nil

	case KindRoomInvite:
		invitation, ok := one[*bot.RoomInvitation](args)
		if !ok || invitation == nil {
			return nil, ErrEventContract(kind, len(args), "RoomInvitation")
		}
		return RoomInviteEvent{Invitation: invitation}, nil

	case KindRoomJoin:
		room, contacts, actor, when, ok := roomMembershipArgs(args)
		if !ok {
			return nil, ErrEventContract(kind, len(args), "Room, []Contact, Contact, Time")
		}
		return RoomJoinEvent{Room: room, Invitees: contacts, Inviter: actor, When: when}, nil

	case KindRoomLeave:
		room, contacts, actor, when, ok := roomMembershipArgs(args)
		if !ok {
			return nil, ErrEventContract(kind, len(args), "Room, []Contact, Contact, Time")
		}
		return RoomLeaveEvent{Room: room, Leavers: contacts, Remover: actor, When: when}, nil

	case KindRoomTopic:
		if len(args) != 5 {
			return nil, ErrEventContract(kind, len(args), "Room, string, string, Contact, Time")
		}
		room, okRoom := args[0].(*bot.Room)
		newTopic, okNew := args[1].(string)
		oldTopic, okOld := args[2].(string)
		changer, okChanger := args[3].(*bot.Contact)
		when, okWhen := args[4].(time.Time)
		if !okRoom || room == nil || !okNew || !okOld || !okChanger || changer == nil || !okWhen {
			return nil, ErrEventContract(kind, len(args), "Room, string, string, Contact, Time")
		}
		return RoomTopicEvent{Room: room, NewTopic: newTopic, OldTopic: oldTopic, Changer: changer, When: when}, nil

	case KindScan:
		// qr and status are mandatory; data is optional.
		if len(args) < 2 || len(args) > 3 {
			return nil, ErrEventContract(kind, len(args), "string, ScanStatus, optional string")
		}
		qrCode, okQR := args[0].(string)
		status, okStatus := args[1].(bot.ScanStatus)
		if !okQR || !okStatus {
			return nil, ErrEventContract(kind, len(args), "string, ScanStatus, optional string")
		}
		ev := ScanEvent{QRCode: qrCode, Status: status}
		if len(args) == 3 && args[2] != nil {
			data, ok := args[2].(string)
			if !ok {
				return nil, ErrEventContract(kind, len(args), "string, ScanStatus, optional string")
			}
			ev.Data = data
		}
		return ev, nil

	case KindError:
		payload, ok := one[*bot.EventError](args)
		if !ok || payload == nil {
			return nil, ErrEventContract(kind, len(args), "EventError")
		}
		return ErrorEvent{Payload: payload}, nil

	case KindHeartbeat:
		payload, ok := one[*bot.Heartbeat](args)
		if !ok || payload == nil {
			return nil, ErrEventContract(kind, len(args), "Heartbeat")
		}
		return HeartbeatEvent{Payload: payload}, nil

	case KindReady:
		payload, ok := one[*bot.Ready](args)
		if !ok || payload == nil {
			return nil, ErrEventContract(kind, len(args), "Ready")
		}
		return ReadyEvent{Payload: payload}, nil

	default:
		return nil, ErrEventContract(kind, len(args), "a known event kind")
	}
}

// one extracts the single typed payload of an arity-1 event.
func one[T any](args []any) (T, bool) {
	var zero T
	if len(args) != 1 {
		return zero, false
	}
	v, ok := args[0].(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// roomMembershipArgs validates the shared arity-4 shape of room-join and
// room-leave.
func roomMembershipArgs(args []any) (*bot.Room, []*bot.Contact, *bot.Contact, time.Time, bool) {
	if len(args) != 4 {
		return nil, nil, nil, time.Time{}, false
	}
	room, okRoom := args[0].(*bot.Room)
	contacts, okContacts := args[1].([]*bot.Contact)
	actor, okActor := args[2].(*bot.Contact)
	when, okWhen := args[3].(time.Time)
	if !okRoom || room == nil || !okContacts || !okActor || actor == nil || !okWhen {
		return nil, nil, nil, time.Time{}, false
	}
	return room, contacts, actor, when, true
}
