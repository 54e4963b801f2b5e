package core

import "sync"

// Identity is the verified user behind a connection.
type Identity struct {
	UserID int64
	Nick   string
}

type connState struct {
	sink     Sink
	identity Identity
	room     string
}

// Directory owns every connection record and the room membership index.
// A single mutex guards both structures: the invariant that a connection
// appears in exactly the room named by its record spans the two, so they
// are never locked independently. Mutators return a View captured while
// the lock is held; callers deliver events from the view afterwards.
type Directory struct {
	mu       sync.Mutex
	registry *Registry
	conns    map[string]*connState
	rooms    map[string]map[string]struct{}
}

// View is a consistent snapshot of delivery targets and counts taken at
// the moment of a mutation.
type View struct {
	Room      string
	Nick      string
	Occupancy int
	Self      Sink
	Others    []Sink // room members except the acting connection
	Members   []Sink // room members including the acting connection
	Everyone  []Sink // all registered connections
	Stats     []RoomStat
}

// NewDirectory builds an empty directory over the given registry.
func NewDirectory(registry *Registry) *Directory {
	rooms := make(map[string]map[string]struct{}, len(registry.Rooms()))
	for _, room := range registry.Rooms() {
		rooms[room.ID] = make(map[string]struct{})
	}
	return &Directory{
		registry: registry,
		conns:    make(map[string]*connState),
		rooms:    rooms,
	}
}

// Register creates an empty connection record.
func (d *Directory) Register(connID string, sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[connID] = &connState{sink: sink}
}

// Lookup returns the connection's identity and current room.
func (d *Directory) Lookup(connID string) (Identity, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.conns[connID]
	if !ok {
		return Identity{}, "", false
	}
	return c.identity, c.room, true
}

// SinkOf returns the connection's event sink.
func (d *Directory) SinkOf(connID string) (Sink, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.conns[connID]
	if !ok {
		return nil, false
	}
	return c.sink, true
}

// SetRoom atomically moves the connection into room and records its
// identity. Returns false if the connection is not registered, which a
// disconnect racing an in-flight join makes a safe no-op.
func (d *Directory) SetRoom(connID, room string, identity Identity) (View, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.conns[connID]
	if !ok {
		return View{}, false
	}

	if c.room != "" {
		delete(d.rooms[c.room], connID)
	}
	members, ok := d.rooms[room]
	if !ok {
		// Unknown room ids are rejected before this point; keep the
		// invariant rather than index a nil set.
		members = make(map[string]struct{})
		d.rooms[room] = members
	}
	members[connID] = struct{}{}
	c.identity = identity
	c.room = room

	view := View{
		Room:      room,
		Nick:      identity.Nick,
		Occupancy: len(members),
		Self:      c.sink,
		Stats:     d.statsLocked(),
		Everyone:  d.allSinksLocked(),
	}
	for id := range members {
		view.Members = append(view.Members, d.conns[id].sink)
		if id != connID {
			view.Others = append(view.Others, d.conns[id].sink)
		}
	}
	return view, true
}

// RemoveRoom vacates the connection's current room, leaving its identity
// in place. The second return is false when there was no room to leave.
func (d *Directory) RemoveRoom(connID string) (View, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeRoomLocked(connID)
}

// Unregister removes the connection entirely, vacating its room first so
// the index never retains a dangling id. hadRoom reports whether a room
// was vacated; existed is false on a repeated unregister.
func (d *Directory) Unregister(connID string) (view View, hadRoom, existed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.conns[connID]; !ok {
		return View{}, false, false
	}
	view, hadRoom = d.removeRoomLocked(connID)
	delete(d.conns, connID)
	return view, hadRoom, true
}

// CountIn returns the room's occupancy.
func (d *Directory) CountIn(room string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms[room])
}

// RoomSinks returns a snapshot of the room's member sinks.
func (d *Directory) RoomSinks(room string) []Sink {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.rooms[room]
	sinks := make([]Sink, 0, len(members))
	for id := range members {
		sinks = append(sinks, d.conns[id].sink)
	}
	return sinks
}

// Stats returns occupancy for every room in catalog order.
func (d *Directory) Stats() []RoomStat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statsLocked()
}

func (d *Directory) removeRoomLocked(connID string) (View, bool) {
	c, ok := d.conns[connID]
	if !ok || c.room == "" {
		return View{}, false
	}

	room := c.room
	c.room = ""
	delete(d.rooms[room], connID)

	view := View{
		Room:      room,
		Nick:      c.identity.Nick,
		Occupancy: len(d.rooms[room]),
		Self:      c.sink,
		Stats:     d.statsLocked(),
		Everyone:  d.allSinksLocked(),
	}
	for id := range d.rooms[room] {
		view.Others = append(view.Others, d.conns[id].sink)
	}
	view.Members = view.Others
	return view, true
}

func (d *Directory) statsLocked() []RoomStat {
	stats := make([]RoomStat, 0, len(d.registry.Rooms()))
	for _, room := range d.registry.Rooms() {
		stats = append(stats, RoomStat{
			ID:          room.ID,
			DisplayName: room.DisplayName,
			Occupancy:   len(d.rooms[room.ID]),
		})
	}
	return stats
}

func (d *Directory) allSinksLocked() []Sink {
	sinks := make([]Sink, 0, len(d.conns))
	for _, c := range d.conns {
		sinks = append(sinks, c.sink)
	}
	return sinks
}
