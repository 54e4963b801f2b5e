package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast-server/internal/auth"
	"github.com/vovakirdan/roomcast-server/internal/core"
	"github.com/vovakirdan/roomcast-server/internal/proto"
	"github.com/vovakirdan/roomcast-server/internal/store/sqlite"
)

// newTestHandler wires a handler over an in-memory store and returns a
// registered client plus a token for a pre-created user.
func newTestHandler(t *testing.T) (*WSHandler, *core.Client, string) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	_, token, err := authService.Register(context.Background(), "alice@example.com", "password123", "alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	registry := core.NewRegistry(core.DefaultRooms())
	directory := core.NewDirectory(registry)
	logger := zerolog.Nop()
	coordinator := core.NewCoordinator(registry, directory, authService, st, &logger, 50)

	handler := &WSHandler{coordinator: coordinator, log: &logger}
	client := core.NewClient("conn-1")
	coordinator.Connect(client.ID, client)
	drainEvents(client)

	return handler, client, token
}

func drainEvents(client *core.Client) []*core.Event {
	var out []*core.Event
	for {
		select {
		case event := <-client.Events:
			out = append(out, event)
		default:
			return out
		}
	}
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return data
}

func TestDispatchJoinDrivesCoordinator(t *testing.T) {
	handler, client, token := newTestHandler(t)

	protoErr, err := handler.dispatch(context.Background(), client, proto.Inbound{
		Type: proto.InboundTypeJoin,
		Data: rawJSON(t, proto.JoinData{Room: "general", Token: token}),
	})
	if err != nil || protoErr != nil {
		t.Fatalf("dispatch failed: err=%v protoErr=%+v", err, protoErr)
	}

	events := drainEvents(client)
	kinds := make([]core.EventKind, 0, len(events))
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}
	want := []core.EventKind{core.EventJoinedRoom, core.EventRoomOccupancy, core.EventRoomStats, core.EventHistory}
	if len(kinds) != len(want) {
		t.Fatalf("expected kinds %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected kinds %v, got %v", want, kinds)
		}
	}
}

func TestDispatchRejectsMalformedEnvelopes(t *testing.T) {
	handler, client, _ := newTestHandler(t)
	ctx := context.Background()

	protoErr, err := handler.dispatch(ctx, client, proto.Inbound{Type: "dance"})
	if err != nil || protoErr == nil || protoErr.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got err=%v protoErr=%+v", err, protoErr)
	}

	protoErr, err = handler.dispatch(ctx, client, proto.Inbound{
		Type: proto.InboundTypeJoin,
		Data: rawJSON(t, proto.JoinData{Token: "t"}),
	})
	if err != nil || protoErr == nil || protoErr.Code != "bad_request" {
		t.Fatalf("expected bad_request for missing room, got err=%v protoErr=%+v", err, protoErr)
	}

	if _, err = handler.dispatch(ctx, client, proto.Inbound{
		Type: proto.InboundTypeMsg,
		Data: json.RawMessage(`{broken`),
	}); err == nil {
		t.Fatal("expected a decode error for broken payload")
	}
}

func TestDispatchStatsRepliesToClient(t *testing.T) {
	handler, client, _ := newTestHandler(t)

	protoErr, err := handler.dispatch(context.Background(), client, proto.Inbound{Type: proto.InboundTypeStats})
	if err != nil || protoErr != nil {
		t.Fatalf("dispatch failed: err=%v protoErr=%+v", err, protoErr)
	}

	events := drainEvents(client)
	if len(events) != 1 || events[0].Kind != core.EventRoomStats {
		t.Fatalf("expected a single stats event, got %+v", events)
	}
}

func TestOutboundFromEventShapes(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	out := outboundFromEvent(&core.Event{
		Kind:  core.EventAvailableRooms,
		Stats: []core.RoomStat{{ID: "general", DisplayName: "General", Occupancy: 2}},
	})
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventNameAvailableRooms {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	stats, ok := out.Data.([]proto.RoomStat)
	if !ok || len(stats) != 1 || stats[0].Name != "General" || stats[0].Count != 2 {
		t.Fatalf("unexpected stats payload: %+v", out.Data)
	}

	out = outboundFromEvent(&core.Event{
		Kind: core.EventMessage,
		Room: "general",
		Message: core.Message{
			ID: 7, Room: "general", UserID: 3, Nick: "alice", Text: "hi", CreatedAt: created,
		},
	})
	if out.Event != proto.EventNameNewMessage {
		t.Fatalf("unexpected event name: %q", out.Event)
	}
	msg, ok := out.Data.(proto.EventMessage)
	if !ok || msg.ID != 7 || msg.TS != created.Unix() {
		t.Fatalf("unexpected message payload: %+v", out.Data)
	}

	out = outboundFromEvent(&core.Event{
		Kind: core.EventHistory,
		Room: "general",
		Messages: []core.Message{
			{ID: 1, Room: "general", Nick: "alice", Text: "first", CreatedAt: created},
			{ID: 2, Room: "general", Nick: "bob", Text: "second", CreatedAt: created},
		},
	})
	history, ok := out.Data.(proto.EventHistory)
	if !ok || out.Event != proto.EventNamePrevMessages || len(history.Messages) != 2 {
		t.Fatalf("unexpected history payload: %+v", out.Data)
	}
	if history.Messages[0].Text != "first" {
		t.Fatalf("history order changed: %+v", history.Messages)
	}

	out = outboundFromEvent(&core.Event{
		Kind:  core.EventAuthError,
		Error: &core.CoreError{Code: "invalid_token", Message: "token is invalid"},
	})
	if out.Type != proto.OutboundTypeError || out.Event != proto.EventNameAuthError {
		t.Fatalf("unexpected auth error envelope: %+v", out)
	}
	if out.Error == nil || out.Error.Code != "invalid_token" {
		t.Fatalf("unexpected error payload: %+v", out.Error)
	}
}
