package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/roomcast-server/internal/store"
)

// TokenVerifier resolves a bearer token to a verified identity. Failures
// are ErrMissingToken, ErrInvalidToken or ErrUserNotFound.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
}

// DefaultHistoryLimit is how many recent messages a joining connection
// receives when no limit is configured.
const DefaultHistoryLimit = 50

// Coordinator implements the join/send/leave/disconnect protocol. Each
// transport connection calls it from its own goroutine, which preserves
// that connection's submission order; the directory serializes mutations
// across connections. Verifier and message-log calls happen outside the
// directory lock.
type Coordinator struct {
	registry     *Registry
	dir          *Directory
	verifier     TokenVerifier
	messages     store.MessageStore
	emitter      *Emitter
	log          *zerolog.Logger
	historyLimit int
}

// NewCoordinator wires the protocol over its collaborators.
func NewCoordinator(registry *Registry, dir *Directory, verifier TokenVerifier, messages store.MessageStore, logger *zerolog.Logger, historyLimit int) *Coordinator {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Coordinator{
		registry:     registry,
		dir:          dir,
		verifier:     verifier,
		messages:     messages,
		emitter:      NewEmitter(logger),
		log:          logger,
		historyLimit: historyLimit,
	}
}

// Connect registers the connection and sends it the room catalog with
// live occupancy counts.
func (c *Coordinator) Connect(connID string, sink Sink) {
	c.dir.Register(connID, sink)
	c.emitter.ToOne(sink, &Event{Kind: EventAvailableRooms, Stats: c.dir.Stats()})
}

// RequestStats replies to the requester alone with occupancy for every
// room. Counts are not sensitive, so no credential is required.
func (c *Coordinator) RequestStats(connID string) {
	sink, ok := c.dir.SinkOf(connID)
	if !ok {
		return
	}
	c.emitter.ToOne(sink, &Event{Kind: EventRoomStats, Stats: c.dir.Stats()})
}

// Join verifies the token, vacates any current room, and makes the
// connection a member of roomID. History delivery failures do not undo
// the committed join.
func (c *Coordinator) Join(ctx context.Context, connID, roomID, token string) {
	identity, err := c.verifier.VerifyToken(ctx, token)
	if err != nil {
		c.emitAuthError(connID, err)
		return
	}

	room, ok := c.registry.Get(roomID)
	if !ok {
		c.emitError(connID, ErrCodeRoomNotFound, "room does not exist")
		return
	}

	// Switching rooms is leave-then-join, never a direct transfer. The
	// leave runs even when the target equals the current room.
	c.leave(connID)

	view, ok := c.dir.SetRoom(connID, roomID, identity)
	if !ok {
		// Disconnected while the token was being verified.
		c.log.Debug().Str("conn_id", connID).Msg("join after disconnect ignored")
		return
	}

	c.emitter.ToOne(view.Self, &Event{
		Kind:        EventJoinedRoom,
		Room:        roomID,
		DisplayName: room.DisplayName,
		Occupancy:   view.Occupancy,
	})
	c.emitter.ToEach(view.Others, &Event{Kind: EventUserJoined, Room: roomID, Nick: identity.Nick})
	c.emitter.ToEach(view.Members, &Event{Kind: EventRoomOccupancy, Room: roomID, Occupancy: view.Occupancy})
	c.emitter.ToEach(view.Everyone, &Event{Kind: EventRoomStats, Stats: view.Stats})

	history, err := c.messages.ListRecent(ctx, roomID, c.historyLimit)
	if err != nil {
		c.log.Warn().Err(err).Str("room", roomID).Msg("failed to load message history")
		c.emitter.ToOne(view.Self, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeHistoryUnavailable, "could not load message history"),
		})
		return
	}
	c.emitter.ToOne(view.Self, &Event{
		Kind:     EventHistory,
		Room:     roomID,
		Messages: messagesFromStore(history),
	})
}

// Send verifies the token, checks the connection is a member of roomID
// under the same identity, persists the message, and broadcasts it to the
// room. A persistence failure aborts the whole action.
func (c *Coordinator) Send(ctx context.Context, connID, roomID, text, token string) {
	identity, err := c.verifier.VerifyToken(ctx, token)
	if err != nil {
		c.emitAuthError(connID, err)
		return
	}

	current, room, ok := c.dir.Lookup(connID)
	if !ok || room != roomID || current.UserID != identity.UserID {
		c.emitError(connID, ErrCodeNotInRoom, "you are not in this room")
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.emitError(connID, ErrCodeEmptyMessage, "message cannot be empty")
		return
	}

	msg := &store.Message{
		Room:      roomID,
		UserID:    identity.UserID,
		Nick:      identity.Nick,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	id, err := c.messages.AppendMessage(ctx, msg)
	if err != nil {
		c.log.Error().Err(err).Str("room", roomID).Msg("failed to persist message")
		c.emitError(connID, ErrCodeMessageNotSaved, "could not send message")
		return
	}

	c.emitter.ToEach(c.dir.RoomSinks(roomID), &Event{
		Kind: EventMessage,
		Room: roomID,
		Message: Message{
			ID:        id,
			Room:      msg.Room,
			UserID:    msg.UserID,
			Nick:      msg.Nick,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		},
	})
}

// Disconnect vacates the connection's room if it has one and removes the
// record. Safe to call repeatedly; the second call is a silent no-op.
func (c *Coordinator) Disconnect(connID string) {
	view, hadRoom, existed := c.dir.Unregister(connID)
	if !existed || !hadRoom {
		return
	}
	c.emitLeave(view)
}

// leave runs the departure sequence for the connection's current room.
// No-op with no emissions when the connection has no room.
func (c *Coordinator) leave(connID string) {
	view, hadRoom := c.dir.RemoveRoom(connID)
	if !hadRoom {
		return
	}
	c.emitLeave(view)
}

func (c *Coordinator) emitLeave(view View) {
	c.emitter.ToEach(view.Others, &Event{Kind: EventUserLeft, Room: view.Room, Nick: view.Nick})
	c.emitter.ToEach(view.Others, &Event{Kind: EventRoomOccupancy, Room: view.Room, Occupancy: view.Occupancy})
	c.emitter.ToEach(view.Everyone, &Event{Kind: EventRoomStats, Stats: view.Stats})
}

func (c *Coordinator) emitAuthError(connID string, err error) {
	sink, ok := c.dir.SinkOf(connID)
	if !ok {
		return
	}
	c.emitter.ToOne(sink, &Event{
		Kind:  EventAuthError,
		Error: coreError(authCodeFor(err), err.Error()),
	})
}

func (c *Coordinator) emitError(connID, code, msg string) {
	sink, ok := c.dir.SinkOf(connID)
	if !ok {
		return
	}
	c.emitter.ToOne(sink, &Event{Kind: EventError, Error: coreError(code, msg)})
}

func messagesFromStore(msgs []*store.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{
			ID:        m.ID,
			Room:      m.Room,
			UserID:    m.UserID,
			Nick:      m.Nick,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
