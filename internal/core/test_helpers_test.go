package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/roomcast-server/internal/store"
)

// captureSink records every delivered event. Coordinator calls in tests
// run on the test goroutine, but fan-out may reach a sink from another
// connection's call, so access is guarded.
type captureSink struct {
	mu     sync.Mutex
	events []*Event
}

func (s *captureSink) Send(ev *Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return true
}

func (s *captureSink) byKind(kind EventKind) []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Event
	for _, ev := range s.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (s *captureSink) last(t *testing.T, kind EventKind) *Event {
	t.Helper()
	events := s.byKind(kind)
	if len(events) == 0 {
		t.Fatalf("expected event kind %v, got none", kind)
	}
	return events[len(events)-1]
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// fakeVerifier resolves tokens from a fixed table.
type fakeVerifier struct {
	identities map[string]Identity
}

func (v *fakeVerifier) VerifyToken(_ context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}
	identity, ok := v.identities[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// fakeLog is an in-memory message log with switchable failure modes.
type fakeLog struct {
	mu         sync.Mutex
	messages   []*store.Message
	nextID     int64
	failAppend bool
	failList   bool
}

func (l *fakeLog) AppendMessage(_ context.Context, msg *store.Message) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAppend {
		return 0, fmt.Errorf("log unavailable")
	}
	l.nextID++
	saved := *msg
	saved.ID = l.nextID
	l.messages = append(l.messages, &saved)
	return l.nextID, nil
}

func (l *fakeLog) ListRecent(_ context.Context, room string, limit int) ([]*store.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failList {
		return nil, fmt.Errorf("log unavailable")
	}
	var out []*store.Message
	for _, msg := range l.messages {
		if msg.Room == room {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (l *fakeLog) appendCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

func newTestCoordinator(t *testing.T) (*Coordinator, *Directory, *fakeLog) {
	t.Helper()

	registry := NewRegistry(DefaultRooms())
	directory := NewDirectory(registry)
	verifier := &fakeVerifier{identities: map[string]Identity{
		"alice-token": {UserID: 1, Nick: "alice"},
		"bob-token":   {UserID: 2, Nick: "bob"},
	}}
	messageLog := &fakeLog{}
	logger := zerolog.Nop()

	coordinator := NewCoordinator(registry, directory, verifier, messageLog, &logger, 50)
	return coordinator, directory, messageLog
}

// connect registers a fresh capture sink under the given id.
func connect(c *Coordinator, connID string) *captureSink {
	sink := &captureSink{}
	c.Connect(connID, sink)
	return sink
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
