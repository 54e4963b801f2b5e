package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	registry := NewRegistry(DefaultRooms())
	directory := NewDirectory(registry)
	verifier := &fakeVerifier{identities: map[string]Identity{
		"token": {UserID: 1, Nick: "sender"},
	}}
	logger := zerolog.Nop()
	coordinator := NewCoordinator(registry, directory, verifier, &fakeLog{}, &logger, 50)

	ctx := context.Background()
	coordinator.Connect("sender", nopSink{})
	coordinator.Join(ctx, "sender", "general", "token")

	for i := 0; i < recipients; i++ {
		id := fmt.Sprintf("c%d", i)
		verifier.identities[id] = Identity{UserID: int64(i + 2), Nick: id}
		coordinator.Connect(id, nopSink{})
		coordinator.Join(ctx, id, "general", id)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		coordinator.Send(ctx, "sender", "general", "payload", "token")
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
