package core

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventAvailableRooms delivers the room catalog with occupancy on connect.
	EventAvailableRooms EventKind = iota
	// EventRoomStats delivers occupancy for every room.
	EventRoomStats
	// EventJoinedRoom confirms a join to the joining connection.
	EventJoinedRoom
	// EventUserJoined notifies room members that a user joined.
	EventUserJoined
	// EventUserLeft notifies room members that a user left.
	EventUserLeft
	// EventRoomOccupancy notifies room members of the room's new occupancy.
	EventRoomOccupancy
	// EventHistory delivers recent message history to a joining connection.
	EventHistory
	// EventMessage notifies room members about a chat message.
	EventMessage
	// EventAuthError reports a credential failure to the requester.
	EventAuthError
	// EventError reports a domain error to the requester.
	EventError
)

// RoomStat is one room's occupancy snapshot.
type RoomStat struct {
	ID          string
	DisplayName string
	Occupancy   int
}

// Event is sent to connections to describe what happened in the system.
type Event struct {
	Kind        EventKind
	Room        string
	DisplayName string
	Occupancy   int
	Nick        string
	Message     Message
	Messages    []Message
	Stats       []RoomStat
	Error       *CoreError
}
