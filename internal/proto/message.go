package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin  = "join"
	InboundTypeMsg   = "msg"
	InboundTypeStats = "stats"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Wire names of emitted events.
const (
	EventNameAvailableRooms = "available_rooms"
	EventNameRoomStats      = "room_stats_update"
	EventNameJoinedRoom     = "joined_room"
	EventNameUserJoined     = "user_joined"
	EventNameUserLeft       = "user_left"
	EventNameRoomCount      = "room_user_count_update"
	EventNamePrevMessages   = "previous_messages"
	EventNameNewMessage     = "new_message"
	EventNameAuthError      = "auth_error"
	EventNameErrorMessage   = "error_message"
)

// JoinData requests to join a specific room.
type JoinData struct {
	Room  string `json:"room"`
	Token string `json:"token"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room  string `json:"room"`
	Text  string `json:"text"`
	Token string `json:"token"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// RoomStat is one room's occupancy on the wire.
type RoomStat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EventJoinedRoom confirms a join to the joining client.
type EventJoinedRoom struct {
	Room  string `json:"room"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EventUserJoined notifies that a user joined a room.
type EventUserJoined struct {
	Room string `json:"room"`
	Nick string `json:"nick"`
}

// EventUserLeft notifies that a user left a room.
type EventUserLeft struct {
	Room string `json:"room"`
	Nick string `json:"nick"`
}

// EventRoomCount carries a room's updated occupancy.
type EventRoomCount struct {
	Room  string `json:"room"`
	Count int    `json:"count"`
}

// EventMessage is a chat message on the wire.
type EventMessage struct {
	ID     int64  `json:"id"`
	Room   string `json:"room"`
	UserID int64  `json:"user_id"`
	Nick   string `json:"nick"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// EventHistory delivers recent messages to a joining client.
type EventHistory struct {
	Room     string         `json:"room"`
	Messages []EventMessage `json:"messages"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
