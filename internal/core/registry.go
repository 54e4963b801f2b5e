package core

// Room is an immutable entry in the room catalog.
type Room struct {
	ID          string
	DisplayName string
}

// Registry is the fixed set of rooms known at startup. It is read-only
// after construction and needs no synchronization.
type Registry struct {
	rooms []Room
	byID  map[string]Room
}

// NewRegistry builds a registry from the configured room list. Duplicate
// ids keep the first entry.
func NewRegistry(rooms []Room) *Registry {
	r := &Registry{
		rooms: make([]Room, 0, len(rooms)),
		byID:  make(map[string]Room, len(rooms)),
	}
	for _, room := range rooms {
		if _, exists := r.byID[room.ID]; exists {
			continue
		}
		r.byID[room.ID] = room
		r.rooms = append(r.rooms, room)
	}
	return r
}

// DefaultRooms returns the built-in room catalog.
func DefaultRooms() []Room {
	return []Room{
		{ID: "general", DisplayName: "General"},
		{ID: "tech", DisplayName: "Tech"},
		{ID: "random", DisplayName: "Random"},
		{ID: "programming", DisplayName: "Programming"},
		{ID: "web", DisplayName: "Web Dev"},
	}
}

// Get returns the room with the given id.
func (r *Registry) Get(id string) (Room, bool) {
	room, ok := r.byID[id]
	return room, ok
}

// Has reports whether id names a known room.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Rooms returns the catalog in configuration order.
func (r *Registry) Rooms() []Room {
	return r.rooms
}
